package token

import "errors"

var (
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrOwnerMismatch             = errors.New("authority does not own the source account")
	ErrMintMismatch              = errors.New("account mint mismatch")
	ErrMemoRequired              = errors.New("destination requires a memo")
	ErrTransferHookNotRegistered = errors.New("transfer hook program not registered")
	ErrTransferHookRejected      = errors.New("transfer hook rejected the transfer")
	ErrTransferFeeCalculation    = errors.New("transfer fee calculation error")
	ErrInvalidTransferFee        = errors.New("invalid transfer fee config")
	ErrInvalidAccountData        = errors.New("invalid token account data")
	ErrAmountOverflow            = errors.New("token amount overflow")
)
