package clmm

import "errors"

var (
	ErrTickNotFound                  = errors.New("tick not found in tick array")
	ErrInvalidStartTick              = errors.New("invalid tick array start index")
	ErrInvalidTickSpacing            = errors.New("invalid tick spacing")
	ErrInvalidTickArraySequence      = errors.New("tick index outside the search range of the tick array")
	ErrTickArraySequenceInvalidIndex = errors.New("tick array sequence exhausted")
	ErrTickArrayMissing              = errors.New("first tick array of a sequence is required")
	ErrTickArrayPoolMismatch         = errors.New("tick array belongs to another pool")
	ErrInvalidAccountData            = errors.New("invalid account data")
	ErrFeeRateMaxExceeded            = errors.New("fee rate exceeds maximum")
	ErrProtocolFeeRateMaxExceeded    = errors.New("protocol fee rate exceeds maximum")
	ErrProtocolFeeOwedOverflow       = errors.New("protocol fee owed overflow")
	ErrInvalidTimestamp              = errors.New("timestamp precedes last reward update")

	ErrRemainingAccountsInvalidSlice          = errors.New("remaining accounts: invalid slice")
	ErrRemainingAccountsInsufficient          = errors.New("remaining accounts: insufficient accounts")
	ErrRemainingAccountsDuplicatedAccountType = errors.New("remaining accounts: duplicated accounts type")
	ErrRemainingAccountsMisordered            = errors.New("remaining accounts: slices out of order")
)
