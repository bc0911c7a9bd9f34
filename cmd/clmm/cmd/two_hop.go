package cmd

import (
	"context"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/program"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func newTwoHopCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "two-hop",
		Short: "Swap through two pools sharing an intermediate mint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				params, err := twoHopParams(ctx, cmd, a)
				if err != nil {
					return err
				}
				event, err := a.program.TwoHopSwap(ctx, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), event)
			})
		},
	}
	f := cmd.Flags()
	f.String("pool-one", "", "first pool")
	f.String("pool-two", "", "second pool")
	f.Bool("a-to-b-one", true, "direction of the first leg")
	f.Bool("a-to-b-two", true, "direction of the second leg")
	f.String("authority", "", "owner of the token accounts")
	f.String("input-account", "", "token account paying the input")
	f.String("output-account", "", "token account receiving the output")
	f.Uint64("amount", 0, "input amount for exact in, output amount for exact out")
	f.Uint64("threshold", 0, "minimum output for exact in, maximum input for exact out")
	f.Bool("exact-in", true, "amount is the input; otherwise it is the output")
	f.StringSlice("hook-input", nil, "transfer hook accounts of the input mint")
	f.StringSlice("hook-intermediate", nil, "transfer hook accounts of the intermediate mint")
	f.StringSlice("hook-output", nil, "transfer hook accounts of the output mint")
	return cmd
}

func twoHopParams(ctx context.Context, cmd *cobra.Command, a *app) (program.TwoHopSwapParams, error) {
	var params program.TwoHopSwapParams
	var err error
	for _, k := range []struct {
		flag string
		dest *solana.PublicKey
	}{
		{"pool-one", &params.PoolOne},
		{"pool-two", &params.PoolTwo},
		{"authority", &params.TokenAuthority},
		{"input-account", &params.TokenOwnerAccountInput},
		{"output-account", &params.TokenOwnerAccountOutput},
	} {
		key, err := keyFlag(cmd, k.flag)
		if err != nil {
			return params, err
		}
		*k.dest = key
	}

	f := cmd.Flags()
	if params.AToBOne, err = f.GetBool("a-to-b-one"); err != nil {
		return params, err
	}
	if params.AToBTwo, err = f.GetBool("a-to-b-two"); err != nil {
		return params, err
	}
	if params.Amount, err = f.GetUint64("amount"); err != nil {
		return params, err
	}
	if params.OtherAmountThreshold, err = f.GetUint64("threshold"); err != nil {
		return params, err
	}
	if params.AmountSpecifiedIsInput, err = f.GetBool("exact-in"); err != nil {
		return params, err
	}
	params.RemainingAccountsInfo, params.RemainingAccounts, err = hookAccounts(cmd,
		map[string]clmm.AccountsType{
			"hook-input":        clmm.AccountsTypeTransferHookInput,
			"hook-intermediate": clmm.AccountsTypeTransferHookIntermediate,
			"hook-output":       clmm.AccountsTypeTransferHookOutput,
		},
		[]string{"hook-input", "hook-intermediate", "hook-output"})
	if err != nil {
		return params, err
	}

	one, err := a.loadPool(ctx, params.PoolOne)
	if err != nil {
		return params, err
	}
	two, err := a.loadPool(ctx, params.PoolTwo)
	if err != nil {
		return params, err
	}
	params.TokenVaultOneInput = one.InputTokenVault(params.AToBOne)
	params.TokenVaultOneIntermediate = one.OutputTokenVault(params.AToBOne)
	params.TokenVaultTwoIntermediate = two.InputTokenVault(params.AToBTwo)
	params.TokenVaultTwoOutput = two.OutputTokenVault(params.AToBTwo)
	if params.TickArraysOne, err = clmm.SwapTickArrayAddresses(a.programID, one, params.AToBOne); err != nil {
		return params, err
	}
	params.TickArraysTwo, err = clmm.SwapTickArrayAddresses(a.programID, two, params.AToBTwo)
	return params, err
}
