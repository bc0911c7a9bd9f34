package clmm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoHopTypes = []AccountsType{
	AccountsTypeTransferHookInput,
	AccountsTypeTransferHookIntermediate,
	AccountsTypeTransferHookOutput,
}

func TestParseRemainingAccounts(t *testing.T) {
	accounts := []solana.PublicKey{testKey("a0"), testKey("a1"), testKey("a2"), testKey("a3")}

	t.Run("no info", func(t *testing.T) {
		parsed, err := ParseRemainingAccounts(accounts, nil, twoHopTypes)
		require.NoError(t, err)
		assert.Nil(t, parsed.TransferHookInput)
	})

	t.Run("splits in order", func(t *testing.T) {
		info := &RemainingAccountsInfo{Slices: []RemainingAccountsSlice{
			{AccountsType: AccountsTypeTransferHookInput, Length: 1},
			{AccountsType: AccountsTypeTransferHookIntermediate, Length: 0},
			{AccountsType: AccountsTypeTransferHookOutput, Length: 2},
		}}
		parsed, err := ParseRemainingAccounts(accounts, info, twoHopTypes)
		require.NoError(t, err)
		assert.Equal(t, []solana.PublicKey{accounts[0]}, parsed.TransferHookInput)
		assert.Nil(t, parsed.TransferHookIntermediate)
		assert.Equal(t, []solana.PublicKey{accounts[1], accounts[2]}, parsed.TransferHookOutput)
	})

	tests := []struct {
		name   string
		slices []RemainingAccountsSlice
		want   error
	}{
		{
			name:   "type not valid for the instruction",
			slices: []RemainingAccountsSlice{{AccountsType: AccountsTypeTransferHookA, Length: 1}},
			want:   ErrRemainingAccountsInvalidSlice,
		},
		{
			name:   "not enough accounts",
			slices: []RemainingAccountsSlice{{AccountsType: AccountsTypeTransferHookInput, Length: 5}},
			want:   ErrRemainingAccountsInsufficient,
		},
		{
			name: "duplicated type",
			slices: []RemainingAccountsSlice{
				{AccountsType: AccountsTypeTransferHookInput, Length: 1},
				{AccountsType: AccountsTypeTransferHookInput, Length: 1},
			},
			want: ErrRemainingAccountsDuplicatedAccountType,
		},
		{
			name: "misordered",
			slices: []RemainingAccountsSlice{
				{AccountsType: AccountsTypeTransferHookOutput, Length: 1},
				{AccountsType: AccountsTypeTransferHookInput, Length: 1},
			},
			want: ErrRemainingAccountsMisordered,
		},
		{
			name:   "unknown type",
			slices: []RemainingAccountsSlice{{AccountsType: AccountsType(42), Length: 1}},
			want:   ErrRemainingAccountsInvalidSlice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRemainingAccounts(accounts, &RemainingAccountsInfo{Slices: tt.slices}, twoHopTypes)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("parsed slices do not alias the input", func(t *testing.T) {
		info := &RemainingAccountsInfo{Slices: []RemainingAccountsSlice{{AccountsType: AccountsTypeTransferHookA, Length: 1}}}
		input := append([]solana.PublicKey(nil), accounts...)
		parsed, err := ParseRemainingAccounts(input, info, []AccountsType{AccountsTypeTransferHookA, AccountsTypeTransferHookB})
		require.NoError(t, err)
		input[0] = testKey("changed")
		assert.Equal(t, accounts[0], parsed.TransferHookA[0])
	})
}

func TestAccountsType_String(t *testing.T) {
	assert.Equal(t, "transfer_hook_intermediate", AccountsTypeTransferHookIntermediate.String())
	assert.Equal(t, "accounts_type(42)", AccountsType(42).String())
}
