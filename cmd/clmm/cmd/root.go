// Package cmd implements the clmm command line: seeding a store with pools
// and running swaps, quotes and fee collection against it.
package cmd

import (
	"github.com/ParsaRahabarn/Solana-Dex/cmd/clmm/config"
	"github.com/spf13/cobra"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configFile string
	fixture    string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "clmm",
		Short: "Concentrated liquidity pool engine",
		Long: `clmm executes concentrated liquidity pool instructions against a local store.

It provides commands for:
- Seeding mints, token accounts and pools from a YAML fixture
- Quoting and executing single pool and two-hop swaps
- Collecting protocol fees
- Inspecting stored records`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (default is ./clmm.yaml)")
	pf.StringVar(&opts.fixture, "fixture", "", "YAML fixture applied to the store before the command runs")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (json, text)")
	pf.String("store-driver", "", "store driver (memory, sqlite, postgres)")
	pf.String("store-dsn", "", "sqlite file or postgres connection string")
	pf.String("program-id", "", "program id pool addresses are derived from")
	pf.Uint64("clock-epoch-seconds", 0, "length of a token fee epoch in seconds")
	pf.Int64("clock-timestamp", 0, "pin the clock to this unix timestamp")

	root.AddCommand(
		newSeedCmd(opts),
		newQuoteCmd(opts),
		newSwapCmd(opts),
		newTwoHopCmd(opts),
		newCollectFeesCmd(opts),
		newInspectCmd(opts),
	)
	return root
}
