package cmd

import (
	"context"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/program"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func addSwapFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("pool", "", "pool address")
	f.Uint64("amount", 0, "amount of the specified side")
	f.Bool("exact-in", true, "amount is the input; otherwise it is the output")
	f.Bool("a-to-b", true, "swap token A for token B")
	f.String("sqrt-price-limit", "", "Q64.64 price limit (default: no limit)")
}

// hookAccounts builds remaining accounts from key list flags, one typed slice
// per non-empty flag in order.
func hookAccounts(cmd *cobra.Command, flags map[string]clmm.AccountsType, order []string) (*clmm.RemainingAccountsInfo, []solana.PublicKey, error) {
	info := &clmm.RemainingAccountsInfo{}
	var accounts []solana.PublicKey
	for _, name := range order {
		keys, err := keysFlag(cmd, name)
		if err != nil {
			return nil, nil, err
		}
		if len(keys) == 0 {
			continue
		}
		info.Slices = append(info.Slices, clmm.RemainingAccountsSlice{AccountsType: flags[name], Length: uint8(len(keys))})
		accounts = append(accounts, keys...)
	}
	if len(info.Slices) == 0 {
		return nil, nil, nil
	}
	return info, accounts, nil
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a swap without executing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				poolKey, err := keyFlag(cmd, "pool")
				if err != nil {
					return err
				}
				params := program.QuoteParams{Pool: poolKey}
				if params.Amount, err = cmd.Flags().GetUint64("amount"); err != nil {
					return err
				}
				if params.AmountSpecifiedIsInput, err = cmd.Flags().GetBool("exact-in"); err != nil {
					return err
				}
				if params.AToB, err = cmd.Flags().GetBool("a-to-b"); err != nil {
					return err
				}
				if params.SqrtPriceLimit, err = sqrtPriceLimitFlag(cmd, "sqrt-price-limit"); err != nil {
					return err
				}
				pool, err := a.loadPool(ctx, poolKey)
				if err != nil {
					return err
				}
				if params.TickArrays, err = clmm.SwapTickArrayAddresses(a.programID, pool, params.AToB); err != nil {
					return err
				}

				quote, err := a.program.Quote(ctx, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"amountA":       quote.Update.AmountA,
					"amountB":       quote.Update.AmountB,
					"estimatedIn":   quote.EstimatedIn,
					"estimatedOut":  quote.EstimatedOut,
					"fee":           quote.Update.FeeAmount,
					"nextSqrtPrice": quote.Update.NextSqrtPrice,
					"nextTick":      quote.Update.NextTickIndex,
					"ticksCrossed":  quote.Update.TicksCrossed,
				})
			})
		},
	}
	addSwapFlags(cmd)
	return cmd
}

func newSwapCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap against one pool",
		Long: `Swap trades between the owner's token accounts and a pool. Tick arrays are
derived from the pool's current tick. --v2 charges token transfer fees and
runs transfer hooks; without it mints with extensions are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				params, err := swapParams(ctx, cmd, a)
				if err != nil {
					return err
				}
				v2, err := cmd.Flags().GetBool("v2")
				if err != nil {
					return err
				}

				var event *program.SwapEvent
				if v2 {
					p := program.SwapV2Params{SwapParams: params}
					p.RemainingAccountsInfo, p.RemainingAccounts, err = hookAccounts(cmd,
						map[string]clmm.AccountsType{"hook-a": clmm.AccountsTypeTransferHookA, "hook-b": clmm.AccountsTypeTransferHookB},
						[]string{"hook-a", "hook-b"})
					if err != nil {
						return err
					}
					event, err = a.program.SwapV2(ctx, p)
				} else {
					event, err = a.program.Swap(ctx, params)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), event)
			})
		},
	}
	addSwapFlags(cmd)
	f := cmd.Flags()
	f.String("authority", "", "owner of the token accounts")
	f.String("owner-a", "", "token account of mint A")
	f.String("owner-b", "", "token account of mint B")
	f.Uint64("threshold", 0, "minimum output for exact in, maximum input for exact out")
	f.Bool("v2", false, "use the transfer fee and hook aware instruction")
	f.StringSlice("hook-a", nil, "transfer hook accounts of mint A")
	f.StringSlice("hook-b", nil, "transfer hook accounts of mint B")
	return cmd
}

func swapParams(ctx context.Context, cmd *cobra.Command, a *app) (program.SwapParams, error) {
	var params program.SwapParams
	var err error
	if params.Pool, err = keyFlag(cmd, "pool"); err != nil {
		return params, err
	}
	if params.TokenAuthority, err = keyFlag(cmd, "authority"); err != nil {
		return params, err
	}
	if params.TokenOwnerAccountA, err = keyFlag(cmd, "owner-a"); err != nil {
		return params, err
	}
	if params.TokenOwnerAccountB, err = keyFlag(cmd, "owner-b"); err != nil {
		return params, err
	}
	f := cmd.Flags()
	if params.Amount, err = f.GetUint64("amount"); err != nil {
		return params, err
	}
	if params.OtherAmountThreshold, err = f.GetUint64("threshold"); err != nil {
		return params, err
	}
	if params.AmountSpecifiedIsInput, err = f.GetBool("exact-in"); err != nil {
		return params, err
	}
	if params.AToB, err = f.GetBool("a-to-b"); err != nil {
		return params, err
	}
	if params.SqrtPriceLimit, err = sqrtPriceLimitFlag(cmd, "sqrt-price-limit"); err != nil {
		return params, err
	}

	pool, err := a.loadPool(ctx, params.Pool)
	if err != nil {
		return params, err
	}
	params.TokenVaultA, params.TokenVaultB = pool.TokenVaultA, pool.TokenVaultB
	params.TickArrays, err = clmm.SwapTickArrayAddresses(a.programID, pool, params.AToB)
	return params, err
}
