package token

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
)

// Memos attached to transfers made by the pool program.
const (
	MemoSwap                = "Memo: Swap"
	MemoCollectProtocolFees = "Memo: Collect Protocol Fees"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Reader loads account records.
type Reader interface {
	Get(ctx context.Context, key solana.PublicKey) ([]byte, error)
}

// AccountStore loads and writes account records inside one transaction.
type AccountStore interface {
	Reader
	Put(ctx context.Context, key solana.PublicKey, data []byte) error
}

// Transfer moves Amount of Mint from Source to Destination on behalf of
// Authority. Epoch selects the transfer fee schedule.
type Transfer struct {
	Source       solana.PublicKey
	Destination  solana.PublicKey
	Mint         solana.PublicKey
	Authority    solana.PublicKey
	Amount       uint64
	Memo         string
	HookAccounts []solana.PublicKey
	Epoch        uint64
}

// HookProgram is invoked for every transfer of a mint that names it. A
// non-nil error aborts the transfer.
type HookProgram interface {
	Execute(ctx context.Context, t Transfer, source, destination *Account) error
}

// HookFunc adapts a function to HookProgram.
type HookFunc func(ctx context.Context, t Transfer, source, destination *Account) error

func (f HookFunc) Execute(ctx context.Context, t Transfer, source, destination *Account) error {
	return f(ctx, t, source, destination)
}

// RequiredAccountsHook accepts a transfer only when every account in Accounts
// was passed along as a hook account.
type RequiredAccountsHook struct {
	Accounts []solana.PublicKey
}

func (h RequiredAccountsHook) Execute(_ context.Context, t Transfer, _, _ *Account) error {
	supplied := make(map[solana.PublicKey]bool, len(t.HookAccounts))
	for _, k := range t.HookAccounts {
		supplied[k] = true
	}
	for _, k := range h.Accounts {
		if !supplied[k] {
			return fmt.Errorf("missing hook account %s", k)
		}
	}
	return nil
}

type ProgramConfig struct {
	Logger Logger
}

func (c *ProgramConfig) validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	return nil
}

// Program executes token transfers against an AccountStore.
type Program struct {
	logger Logger

	mu    sync.RWMutex
	hooks map[solana.PublicKey]HookProgram
}

func NewProgram(cfg *ProgramConfig) (*Program, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Program{
		logger: cfg.Logger,
		hooks:  make(map[solana.PublicKey]HookProgram),
	}, nil
}

// RegisterHook makes hook available to mints naming programID.
func (p *Program) RegisterHook(programID solana.PublicKey, hook HookProgram) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks[programID] = hook
}

func (p *Program) hook(programID solana.PublicKey) (HookProgram, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.hooks[programID]
	return h, ok
}

func LoadMint(ctx context.Context, r Reader, key solana.PublicKey) (*Mint, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load mint %s: %w", key, err)
	}
	return DecodeMint(key, data)
}

func LoadAccount(ctx context.Context, r Reader, key solana.PublicKey) (*Account, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load token account %s: %w", key, err)
	}
	return DecodeAccount(key, data)
}

func putAccount(ctx context.Context, s AccountStore, a *Account) error {
	data, err := EncodeAccount(a)
	if err != nil {
		return err
	}
	return s.Put(ctx, a.Address, data)
}

// Transfer executes t and returns the amount credited to the destination with
// the fee withheld from it.
func (p *Program) Transfer(ctx context.Context, s AccountStore, t Transfer) (AmountWithFee, error) {
	mint, err := LoadMint(ctx, s, t.Mint)
	if err != nil {
		return AmountWithFee{}, err
	}
	source, err := LoadAccount(ctx, s, t.Source)
	if err != nil {
		return AmountWithFee{}, err
	}
	destination := source
	if t.Destination != t.Source {
		if destination, err = LoadAccount(ctx, s, t.Destination); err != nil {
			return AmountWithFee{}, err
		}
	}

	if source.Mint != t.Mint || destination.Mint != t.Mint {
		return AmountWithFee{}, fmt.Errorf("%w: transfer of %s", ErrMintMismatch, t.Mint)
	}
	if source.Owner != t.Authority {
		return AmountWithFee{}, fmt.Errorf("%w: %s", ErrOwnerMismatch, t.Source)
	}
	if source.Amount < t.Amount {
		return AmountWithFee{}, fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, t.Source, source.Amount, t.Amount)
	}
	if destination.MemoRequired && t.Memo == "" {
		return AmountWithFee{}, fmt.Errorf("%w: %s", ErrMemoRequired, t.Destination)
	}

	received, err := TransferFeeExcludedAmount(mint, t.Epoch, t.Amount)
	if err != nil {
		return AmountWithFee{}, err
	}

	if !mint.TransferHookProgram.IsZero() {
		hook, ok := p.hook(mint.TransferHookProgram)
		if !ok {
			return AmountWithFee{}, fmt.Errorf("%w: %s", ErrTransferHookNotRegistered, mint.TransferHookProgram)
		}
		if err := hook.Execute(ctx, t, source, destination); err != nil {
			return AmountWithFee{}, fmt.Errorf("%w: %w", ErrTransferHookRejected, err)
		}
	}

	source.Amount -= t.Amount
	credited, overflow := math.SafeAdd(destination.Amount, received.Amount)
	if overflow {
		return AmountWithFee{}, fmt.Errorf("%w: %s", ErrAmountOverflow, t.Destination)
	}
	withheld, overflow := math.SafeAdd(destination.WithheldAmount, received.TransferFee)
	if overflow {
		return AmountWithFee{}, fmt.Errorf("%w: withheld on %s", ErrAmountOverflow, t.Destination)
	}
	destination.Amount = credited
	destination.WithheldAmount = withheld

	if err := putAccount(ctx, s, source); err != nil {
		return AmountWithFee{}, err
	}
	if destination != source {
		if err := putAccount(ctx, s, destination); err != nil {
			return AmountWithFee{}, err
		}
	}

	p.logger.Debug("token transfer",
		"mint", t.Mint.String(),
		"source", t.Source.String(),
		"destination", t.Destination.String(),
		"amount", t.Amount,
		"fee", received.TransferFee,
	)
	return received, nil
}
