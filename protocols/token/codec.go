package token

import (
	"fmt"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/layout"
	"github.com/gagliardetto/solana-go"
)

const (
	MintAccountName  = "Mint"
	TokenAccountName = "TokenAccount"
)

func EncodeMint(m *Mint) ([]byte, error) {
	e := layout.NewEncoder(MintAccountName)
	e.U8(m.Decimals)
	e.Bool(m.TransferFeeConfig != nil)
	var cfg TransferFeeConfig
	if m.TransferFeeConfig != nil {
		cfg = *m.TransferFeeConfig
	}
	for _, f := range []TransferFee{cfg.OlderTransferFee, cfg.NewerTransferFee} {
		e.U64(f.Epoch)
		e.U64(f.MaximumFee)
		e.U16(f.TransferFeeBasisPoints)
	}
	e.Key(m.TransferHookProgram)
	return e.Bytes()
}

func DecodeMint(address solana.PublicKey, data []byte) (*Mint, error) {
	d, err := layout.NewDecoder(MintAccountName, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	m := &Mint{Address: address, Decimals: d.U8()}
	hasFee := d.Bool()
	var fees [2]TransferFee
	for i := range fees {
		fees[i] = TransferFee{Epoch: d.U64(), MaximumFee: d.U64(), TransferFeeBasisPoints: d.U16()}
	}
	if hasFee {
		m.TransferFeeConfig = &TransferFeeConfig{OlderTransferFee: fees[0], NewerTransferFee: fees[1]}
	}
	m.TransferHookProgram = d.Key()
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	if m.TransferFeeConfig != nil {
		if err := m.TransferFeeConfig.Validate(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func EncodeAccount(a *Account) ([]byte, error) {
	e := layout.NewEncoder(TokenAccountName)
	e.Key(a.Mint)
	e.Key(a.Owner)
	e.U64(a.Amount)
	e.U64(a.WithheldAmount)
	e.Bool(a.MemoRequired)
	return e.Bytes()
}

func DecodeAccount(address solana.PublicKey, data []byte) (*Account, error) {
	d, err := layout.NewDecoder(TokenAccountName, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	a := &Account{
		Address:        address,
		Mint:           d.Key(),
		Owner:          d.Key(),
		Amount:         d.U64(),
		WithheldAmount: d.U64(),
		MemoRequired:   d.Bool(),
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	return a, nil
}
