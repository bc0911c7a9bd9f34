package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the records of --fixture to the store",
		Long: `Seed applies a YAML fixture of mints, token accounts, pool configs, pools and
tick arrays, and prints the derived pool, vault and tick array addresses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.fixture == "" {
				return errors.New("--fixture is required")
			}
			return run(cmd, opts, func(_ context.Context, a *app) error {
				return printJSON(cmd.OutOrStdout(), a.seeded)
			})
		},
	}
}
