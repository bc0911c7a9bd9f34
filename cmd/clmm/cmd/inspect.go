package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

type tickView struct {
	Index             int32    `json:"index"`
	LiquidityNet      *big.Int `json:"liquidityNet"`
	LiquidityGross    *big.Int `json:"liquidityGross"`
	FeeGrowthOutsideA *big.Int `json:"feeGrowthOutsideA"`
	FeeGrowthOutsideB *big.Int `json:"feeGrowthOutsideB"`
}

type tickArrayView struct {
	Address        solana.PublicKey `json:"address"`
	Pool           solana.PublicKey `json:"pool"`
	StartTickIndex int32            `json:"startTickIndex"`
	Ticks          []tickView       `json:"initializedTicks"`
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a stored record as JSON",
	}
	inspect := func(use, short string, show func(ctx context.Context, a *app, key solana.PublicKey) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <address>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := solana.PublicKeyFromBase58(args[0])
				if err != nil {
					return fmt.Errorf("address %q: %w", args[0], err)
				}
				return run(cmd, opts, func(ctx context.Context, a *app) error {
					v, err := show(ctx, a, key)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), v)
				})
			},
		}
	}

	cmd.AddCommand(
		inspect("pool", "Print a pool", func(ctx context.Context, a *app, key solana.PublicKey) (any, error) {
			return a.loadPool(ctx, key)
		}),
		inspect("tick-array", "Print the initialized ticks of a tick array", inspectTickArray),
		inspect("account", "Print a token account", func(ctx context.Context, a *app, key solana.PublicKey) (any, error) {
			return token.LoadAccount(ctx, a.store, key)
		}),
		inspect("mint", "Print a token mint", func(ctx context.Context, a *app, key solana.PublicKey) (any, error) {
			return token.LoadMint(ctx, a.store, key)
		}),
	)
	return cmd
}

func inspectTickArray(ctx context.Context, a *app, key solana.PublicKey) (any, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load tick array %s: %w", key, err)
	}
	ta, err := clmm.DecodeTickArray(key, data)
	if err != nil {
		return nil, err
	}
	pool, err := a.loadPool(ctx, ta.Pool)
	if err != nil {
		return nil, err
	}

	view := tickArrayView{Address: ta.Address, Pool: ta.Pool, StartTickIndex: ta.StartTickIndex, Ticks: []tickView{}}
	for _, idx := range ta.InitializedTicks(pool.TickSpacing) {
		t, err := ta.GetTick(idx, pool.TickSpacing)
		if err != nil {
			return nil, err
		}
		view.Ticks = append(view.Ticks, tickView{
			Index:             idx,
			LiquidityNet:      t.LiquidityNet,
			LiquidityGross:    t.LiquidityGross,
			FeeGrowthOutsideA: t.FeeGrowthOutsideA,
			FeeGrowthOutsideB: t.FeeGrowthOutsideB,
		})
	}
	return view, nil
}
