package calculator

import "errors"

var (
	ErrZeroTradableAmount             = errors.New("zero tradable amount")
	ErrSqrtPriceLimitOutOfBounds      = errors.New("sqrt price limit out of bounds")
	ErrInvalidSqrtPriceLimitDirection = errors.New("sqrt price limit is on the wrong side of the current price")
	ErrZeroLiquidityInRange           = errors.New("no active liquidity in range")
	ErrPartialFill                    = errors.New("exact output swap could not be fully filled")
	ErrAmountRemainingOverflow        = errors.New("amount remaining overflow")
	ErrAmountCalcOverflow             = errors.New("amount calculated overflow")
	ErrFeeGrowthOverflow              = errors.New("fee growth overflow")
	ErrMintMismatch                   = errors.New("mint does not belong to the pool")
)
