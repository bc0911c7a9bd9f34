// Package program executes the pool instructions against a store: swaps,
// two-hop swaps and protocol fee collection. Every instruction loads its
// accounts, validates them, computes, and writes back inside one store
// transaction, so a failure leaves no trace.
package program

import (
	"context"
	"errors"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

const (
	instructionSwap                = "swap"
	instructionSwapV2              = "swap_v2"
	instructionTwoHopSwap          = "two_hop_swap"
	instructionCollectProtocolFees = "collect_protocol_fees"
)

type Config struct {
	ProgramID    solana.PublicKey
	Store        store.Store
	TokenProgram *token.Program
	Clock        Clock
	Logger       Logger
	Registry     prometheus.Registerer
}

func (c *Config) validate() error {
	if c.Store == nil {
		return errors.New("config: Store cannot be nil")
	}
	if c.TokenProgram == nil {
		return errors.New("config: TokenProgram cannot be nil")
	}
	if c.Clock == nil {
		return errors.New("config: Clock cannot be nil")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	return nil
}

type Program struct {
	programID solana.PublicKey
	store     store.Store
	token     *token.Program
	clock     Clock
	logger    Logger
	metrics   *Metrics
}

func New(cfg *Config) (*Program, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Program{
		programID: cfg.ProgramID,
		store:     cfg.Store,
		token:     cfg.TokenProgram,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		metrics:   NewMetrics(cfg.Registry),
	}, nil
}

// ProgramID is the id pool and tick array addresses are derived from.
func (p *Program) ProgramID() solana.PublicKey {
	return p.programID
}

// execute runs fn in a store transaction and records its outcome.
func (p *Program) execute(ctx context.Context, instruction string, fn func(tx store.Tx, id uuid.UUID) error) error {
	timer := prometheus.NewTimer(p.metrics.instructionDuration.WithLabelValues(instruction))
	defer timer.ObserveDuration()

	id := uuid.New()
	err := p.store.Update(ctx, func(tx store.Tx) error {
		return fn(tx, id)
	})
	p.metrics.observeResult(instruction, err)
	if err != nil {
		p.logger.Warn("instruction failed",
			"instruction", instruction,
			"invocation", id.String(),
			"kind", Classify(err).String(),
			"error", err,
		)
	}
	return err
}
