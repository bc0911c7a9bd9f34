package cmd

import (
	"context"

	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/program"
	"github.com/spf13/cobra"
)

func newCollectFeesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-fees",
		Short: "Transfer the protocol fees owed by a pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				var params program.CollectProtocolFeesParams
				var err error
				if params.Pool, err = keyFlag(cmd, "pool"); err != nil {
					return err
				}
				if params.CollectProtocolFeesAuthority, err = keyFlag(cmd, "authority"); err != nil {
					return err
				}
				if params.TokenDestinationA, err = keyFlag(cmd, "destination-a"); err != nil {
					return err
				}
				if params.TokenDestinationB, err = keyFlag(cmd, "destination-b"); err != nil {
					return err
				}
				pool, err := a.loadPool(ctx, params.Pool)
				if err != nil {
					return err
				}
				params.PoolsConfig = pool.PoolsConfig
				params.TokenVaultA, params.TokenVaultB = pool.TokenVaultA, pool.TokenVaultB

				event, err := a.program.CollectProtocolFees(ctx, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), event)
			})
		},
	}
	f := cmd.Flags()
	f.String("pool", "", "pool address")
	f.String("authority", "", "collect protocol fees authority of the pool's config")
	f.String("destination-a", "", "token account receiving fees in mint A")
	f.String("destination-b", "", "token account receiving fees in mint B")
	return cmd
}
