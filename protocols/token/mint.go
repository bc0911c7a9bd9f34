package token

import (
	"github.com/gagliardetto/solana-go"
)

// Mint is the token definition an account holds units of.
type Mint struct {
	Address  solana.PublicKey
	Decimals uint8
	// TransferFeeConfig is nil for mints without a transfer fee.
	TransferFeeConfig *TransferFeeConfig
	// TransferHookProgram is zero for mints without a transfer hook.
	TransferHookProgram solana.PublicKey
}

// HasExtensions reports whether transfers of the mint need more than a plain
// balance move.
func (m *Mint) HasExtensions() bool {
	return m.TransferFeeConfig != nil || !m.TransferHookProgram.IsZero()
}

// Account is a token balance held by Owner.
type Account struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64
	// WithheldAmount accumulates transfer fees charged on incoming transfers.
	WithheldAmount uint64
	MemoRequired   bool
}
