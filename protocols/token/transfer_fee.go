package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

// MAX_FEE_BASIS_POINTS is a 100% transfer fee.
const MAX_FEE_BASIS_POINTS = uint16(10_000)

// TransferFee is the fee schedule in force from Epoch on.
type TransferFee struct {
	Epoch                  uint64
	MaximumFee             uint64
	TransferFeeBasisPoints uint16
}

// TransferFeeConfig holds the current schedule and the one that replaces it.
type TransferFeeConfig struct {
	OlderTransferFee TransferFee
	NewerTransferFee TransferFee
}

func (c *TransferFeeConfig) Validate() error {
	for _, f := range []TransferFee{c.OlderTransferFee, c.NewerTransferFee} {
		if f.TransferFeeBasisPoints > MAX_FEE_BASIS_POINTS {
			return fmt.Errorf("%w: %d basis points", ErrInvalidTransferFee, f.TransferFeeBasisPoints)
		}
	}
	return nil
}

// EpochFee returns the schedule applying at epoch.
func (c *TransferFeeConfig) EpochFee(epoch uint64) TransferFee {
	if epoch >= c.NewerTransferFee.Epoch {
		return c.NewerTransferFee
	}
	return c.OlderTransferFee
}

var bpsDenominator = big.NewInt(int64(MAX_FEE_BASIS_POINTS))

// CalculateFee is the fee charged on a transfer of preFeeAmount:
// min(ceil(amount * bps / 10000), maximum_fee).
func (f TransferFee) CalculateFee(preFeeAmount uint64) uint64 {
	if f.TransferFeeBasisPoints == 0 || preFeeAmount == 0 {
		return 0
	}
	n := new(big.Int).SetUint64(preFeeAmount)
	n.Mul(n, big.NewInt(int64(f.TransferFeeBasisPoints)))
	n.Add(n, bpsDenominator)
	n.Sub(n, big.NewInt(1))
	n.Div(n, bpsDenominator)
	if !n.IsUint64() || n.Uint64() > f.MaximumFee {
		return f.MaximumFee
	}
	return n.Uint64()
}

// CalculatePreFeeAmount is the smallest gross amount that nets postFeeAmount.
func (f TransferFee) CalculatePreFeeAmount(postFeeAmount uint64) (uint64, bool) {
	switch {
	case f.TransferFeeBasisPoints == 0:
		return postFeeAmount, true
	case postFeeAmount == 0:
		return 0, true
	case f.TransferFeeBasisPoints == MAX_FEE_BASIS_POINTS:
		sum, overflow := math.SafeAdd(f.MaximumFee, postFeeAmount)
		return sum, !overflow
	}

	num := new(big.Int).SetUint64(postFeeAmount)
	num.Mul(num, bpsDenominator)
	den := big.NewInt(int64(MAX_FEE_BASIS_POINTS - f.TransferFeeBasisPoints))
	raw := new(big.Int).Add(num, den)
	raw.Sub(raw, big.NewInt(1))
	raw.Div(raw, den)

	fee := new(big.Int).Sub(raw, new(big.Int).SetUint64(postFeeAmount))
	if fee.Cmp(new(big.Int).SetUint64(f.MaximumFee)) >= 0 {
		sum, overflow := math.SafeAdd(postFeeAmount, f.MaximumFee)
		return sum, !overflow
	}
	if !raw.IsUint64() {
		return 0, false
	}
	return raw.Uint64(), true
}

// CalculateInverseFee is the fee charged on the gross amount that nets
// postFeeAmount.
func (f TransferFee) CalculateInverseFee(postFeeAmount uint64) (uint64, bool) {
	pre, ok := f.CalculatePreFeeAmount(postFeeAmount)
	if !ok {
		return 0, false
	}
	return f.CalculateFee(pre), true
}

// AmountWithFee is an amount together with the transfer fee it implies.
type AmountWithFee struct {
	Amount      uint64
	TransferFee uint64
}

// TransferFeeExcludedAmount is what arrives when amount is sent.
func TransferFeeExcludedAmount(mint *Mint, epoch uint64, amount uint64) (AmountWithFee, error) {
	if mint.TransferFeeConfig == nil {
		return AmountWithFee{Amount: amount}, nil
	}
	fee := mint.TransferFeeConfig.EpochFee(epoch).CalculateFee(amount)
	if fee > amount {
		return AmountWithFee{}, ErrTransferFeeCalculation
	}
	return AmountWithFee{Amount: amount - fee, TransferFee: fee}, nil
}

// TransferFeeIncludedAmount is what must be sent for amount to arrive.
func TransferFeeIncludedAmount(mint *Mint, epoch uint64, amount uint64) (AmountWithFee, error) {
	if amount == 0 || mint.TransferFeeConfig == nil {
		return AmountWithFee{Amount: amount}, nil
	}

	epochFee := mint.TransferFeeConfig.EpochFee(epoch)
	var fee uint64
	if epochFee.TransferFeeBasisPoints == MAX_FEE_BASIS_POINTS {
		fee = epochFee.MaximumFee
	} else {
		var ok bool
		if fee, ok = epochFee.CalculateInverseFee(amount); !ok {
			return AmountWithFee{}, ErrTransferFeeCalculation
		}
	}

	included, overflow := math.SafeAdd(amount, fee)
	if overflow {
		return AmountWithFee{}, fmt.Errorf("%w: %d plus fee %d", ErrAmountOverflow, amount, fee)
	}
	if epochFee.CalculateFee(included) != fee {
		return AmountWithFee{}, ErrTransferFeeCalculation
	}
	return AmountWithFee{Amount: included, TransferFee: fee}, nil
}
