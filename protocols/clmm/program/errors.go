package program

import (
	"errors"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/liquiditymath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/sqrtpricemath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/calculator/tickmath"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/layout"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
)

var (
	ErrAmountOutBelowMinimum           = errors.New("amount out below minimum threshold")
	ErrAmountInAboveMaximum            = errors.New("amount in above maximum threshold")
	ErrDuplicateTwoHopPool             = errors.New("two-hop swap uses the same pool twice")
	ErrInvalidIntermediaryMint         = errors.New("intermediary mint of the two legs differs")
	ErrIntermediateTokenAmountMismatch = errors.New("intermediate token amounts of the two legs differ")
	ErrUnsupportedTokenMint            = errors.New("token mint carries extensions unsupported by this instruction")
	ErrUnauthorized                    = errors.New("signer is not the required authority")
	ErrPoolsConfigMismatch             = errors.New("pool does not belong to the pools config")
	ErrVaultMismatch                   = errors.New("vault does not match the pool")
	ErrTokenAccountMintMismatch        = errors.New("token account mint does not match the pool")
	ErrDuplicateTickArray              = errors.New("tick array passed to both legs")
)

// ErrorKind groups instruction failures by what the caller can do about them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindSlippage: the result was outside the caller's threshold.
	KindSlippage
	// KindInvalidInput: the request itself is malformed.
	KindInvalidInput
	// KindInsufficientState: not enough tick arrays or liquidity were loaded.
	KindInsufficientState
	// KindNumeric: an arithmetic limit was reached.
	KindNumeric
	KindAuthorization
	KindToken
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindSlippage:
		return "slippage"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientState:
		return "insufficient_state"
	case KindNumeric:
		return "numeric"
	case KindAuthorization:
		return "authorization"
	case KindToken:
		return "token"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

var errorKinds = []struct {
	kind ErrorKind
	errs []error
}{
	{KindSlippage, []error{
		ErrAmountOutBelowMinimum,
		ErrAmountInAboveMaximum,
	}},
	{KindInsufficientState, []error{
		clmm.ErrTickArraySequenceInvalidIndex,
		clmm.ErrTickArrayMissing,
		calculator.ErrZeroLiquidityInRange,
		calculator.ErrPartialFill,
	}},
	{KindNumeric, []error{
		sqrtpricemath.ErrMultiplicationOverflow,
		sqrtpricemath.ErrTokenMaxExceeded,
		sqrtpricemath.ErrTokenMinSubceeded,
		sqrtpricemath.ErrDivideByZero,
		tickmath.ErrSqrtPriceOutOfBounds,
		tickmath.ErrTickOutOfBounds,
		liquiditymath.ErrLiquidityOverflow,
		liquiditymath.ErrLiquidityUnderflow,
		calculator.ErrAmountRemainingOverflow,
		calculator.ErrAmountCalcOverflow,
		calculator.ErrFeeGrowthOverflow,
		clmm.ErrProtocolFeeOwedOverflow,
		token.ErrAmountOverflow,
	}},
	{KindAuthorization, []error{
		ErrUnauthorized,
		token.ErrOwnerMismatch,
	}},
	{KindToken, []error{
		token.ErrInsufficientFunds,
		token.ErrMintMismatch,
		token.ErrMemoRequired,
		token.ErrTransferHookNotRegistered,
		token.ErrTransferHookRejected,
		token.ErrTransferFeeCalculation,
		token.ErrInvalidTransferFee,
	}},
	{KindStorage, []error{
		store.ErrNotFound,
		store.ErrClosed,
		clmm.ErrInvalidAccountData,
		token.ErrInvalidAccountData,
		layout.ErrInvalidDiscriminator,
		layout.ErrUnsupportedVersion,
	}},
}

// Classify returns the kind of an instruction error. Errors that match no
// known group, such as a bad price limit or a duplicate pool, are
// KindInvalidInput.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, group := range errorKinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return KindInvalidInput
}
