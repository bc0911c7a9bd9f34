package clmm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountsType tags a slice of the remaining accounts of an instruction.
type AccountsType uint8

const (
	AccountsTypeTransferHookA AccountsType = iota
	AccountsTypeTransferHookB
	AccountsTypeTransferHookReward
	AccountsTypeTransferHookInput
	AccountsTypeTransferHookIntermediate
	AccountsTypeTransferHookOutput
)

func (t AccountsType) String() string {
	switch t {
	case AccountsTypeTransferHookA:
		return "transfer_hook_a"
	case AccountsTypeTransferHookB:
		return "transfer_hook_b"
	case AccountsTypeTransferHookReward:
		return "transfer_hook_reward"
	case AccountsTypeTransferHookInput:
		return "transfer_hook_input"
	case AccountsTypeTransferHookIntermediate:
		return "transfer_hook_intermediate"
	case AccountsTypeTransferHookOutput:
		return "transfer_hook_output"
	default:
		return fmt.Sprintf("accounts_type(%d)", uint8(t))
	}
}

// RemainingAccountsSlice says that the next Length remaining accounts belong
// to AccountsType.
type RemainingAccountsSlice struct {
	AccountsType AccountsType
	Length       uint8
}

type RemainingAccountsInfo struct {
	Slices []RemainingAccountsSlice
}

// ParsedRemainingAccounts holds the transfer hook accounts per token role.
// A nil slice means no accounts were supplied for that role.
type ParsedRemainingAccounts struct {
	TransferHookA            []solana.PublicKey
	TransferHookB            []solana.PublicKey
	TransferHookInput        []solana.PublicKey
	TransferHookIntermediate []solana.PublicKey
	TransferHookOutput       []solana.PublicKey
}

// ParseRemainingAccounts splits accounts according to info. Only the types in
// valid are accepted, each at most once and in the order they appear in
// valid. Empty slices are ignored; accounts past the last slice are unused.
func ParseRemainingAccounts(accounts []solana.PublicKey, info *RemainingAccountsInfo, valid []AccountsType) (ParsedRemainingAccounts, error) {
	var parsed ParsedRemainingAccounts
	if info == nil {
		return parsed, nil
	}

	rank := make(map[AccountsType]int, len(valid))
	for i, t := range valid {
		rank[t] = i
	}

	seen := make(map[AccountsType]bool)
	lastRank := -1
	cursor := 0
	for _, slice := range info.Slices {
		r, ok := rank[slice.AccountsType]
		if !ok {
			return parsed, fmt.Errorf("%w: %s", ErrRemainingAccountsInvalidSlice, slice.AccountsType)
		}
		if slice.Length == 0 {
			continue
		}
		if seen[slice.AccountsType] {
			return parsed, fmt.Errorf("%w: %s", ErrRemainingAccountsDuplicatedAccountType, slice.AccountsType)
		}
		if r < lastRank {
			return parsed, fmt.Errorf("%w: %s", ErrRemainingAccountsMisordered, slice.AccountsType)
		}
		seen[slice.AccountsType] = true
		lastRank = r

		end := cursor + int(slice.Length)
		if end > len(accounts) {
			return parsed, fmt.Errorf("%w: %s wants %d, %d left", ErrRemainingAccountsInsufficient, slice.AccountsType, slice.Length, len(accounts)-cursor)
		}
		taken := append([]solana.PublicKey(nil), accounts[cursor:end]...)
		cursor = end

		switch slice.AccountsType {
		case AccountsTypeTransferHookA:
			parsed.TransferHookA = taken
		case AccountsTypeTransferHookB:
			parsed.TransferHookB = taken
		case AccountsTypeTransferHookInput:
			parsed.TransferHookInput = taken
		case AccountsTypeTransferHookIntermediate:
			parsed.TransferHookIntermediate = taken
		case AccountsTypeTransferHookOutput:
			parsed.TransferHookOutput = taken
		default:
			return parsed, fmt.Errorf("%w: %s", ErrRemainingAccountsInvalidSlice, slice.AccountsType)
		}
	}
	return parsed, nil
}
