package token

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintCodec(t *testing.T) {
	addr := solana.NewWallet().PublicKey()

	t.Run("plain", func(t *testing.T) {
		m := &Mint{Address: addr, Decimals: 6}
		data, err := EncodeMint(m)
		require.NoError(t, err)
		got, err := DecodeMint(addr, data)
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.False(t, got.HasExtensions())
	})

	t.Run("with extensions", func(t *testing.T) {
		m := &Mint{
			Address:  addr,
			Decimals: 9,
			TransferFeeConfig: &TransferFeeConfig{
				OlderTransferFee: TransferFee{Epoch: 1, MaximumFee: 10, TransferFeeBasisPoints: 50},
				NewerTransferFee: TransferFee{Epoch: 4, MaximumFee: 20, TransferFeeBasisPoints: 100},
			},
			TransferHookProgram: solana.NewWallet().PublicKey(),
		}
		data, err := EncodeMint(m)
		require.NoError(t, err)
		got, err := DecodeMint(addr, data)
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.True(t, got.HasExtensions())
	})

	t.Run("wrong record", func(t *testing.T) {
		data, err := EncodeAccount(&Account{})
		require.NoError(t, err)
		_, err = DecodeMint(addr, data)
		assert.ErrorIs(t, err, ErrInvalidAccountData)
	})
}

func TestAccountCodec(t *testing.T) {
	a := &Account{
		Address:        solana.NewWallet().PublicKey(),
		Mint:           solana.NewWallet().PublicKey(),
		Owner:          solana.NewWallet().PublicKey(),
		Amount:         42,
		WithheldAmount: 7,
		MemoRequired:   true,
	}
	data, err := EncodeAccount(a)
	require.NoError(t, err)
	got, err := DecodeAccount(a.Address, data)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = DecodeAccount(a.Address, data[:len(data)-1])
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}
