package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ParsaRahabarn/Solana-Dex/cmd/clmm/config"
	"github.com/ParsaRahabarn/Solana-Dex/cmd/clmm/fixture"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/clmm/program"
	"github.com/ParsaRahabarn/Solana-Dex/protocols/token"
	"github.com/ParsaRahabarn/Solana-Dex/store"
	"github.com/ParsaRahabarn/Solana-Dex/store/postgres"
	"github.com/ParsaRahabarn/Solana-Dex/store/sqlite"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app holds the components one command invocation works with.
type app struct {
	logger    *slog.Logger
	store     store.Store
	program   *program.Program
	programID solana.PublicKey
	seeded    *fixture.Summary
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return store.NewMemory(), nil
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.DSN)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newClock(cfg config.ClockConfig) program.Clock {
	if cfg.Timestamp != 0 {
		var epoch uint64
		if cfg.EpochSeconds != 0 {
			epoch = uint64(cfg.Timestamp) / cfg.EpochSeconds
		}
		return program.FixedClock{Timestamp: cfg.Timestamp, EpochID: epoch}
	}
	return program.SystemClock{EpochSeconds: cfg.EpochSeconds}
}

func newApp(ctx context.Context, opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg := opts.cfg
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return nil, err
	}
	programID, err := cfg.Program.PublicKey()
	if err != nil {
		return nil, err
	}
	s, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	a := &app{logger: logger, store: s, programID: programID}

	tokens, err := token.NewProgram(&token.ProgramConfig{Logger: logger.With("component", "token")})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.program, err = program.New(&program.Config{
		ProgramID:    programID,
		Store:        s,
		TokenProgram: tokens,
		Clock:        newClock(cfg.Clock),
		Logger:       logger.With("component", "program"),
		Registry:     prometheus.NewRegistry(),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if opts.fixture != "" {
		f, err := fixture.LoadFile(opts.fixture)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		if a.seeded, err = fixture.Apply(ctx, s, programID, f); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("apply fixture %s: %w", opts.fixture, err)
		}
		logger.Debug("fixture applied", "path", opts.fixture, "pools", len(a.seeded.Pools))
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// run builds the app for cmd, calls fn and closes the store.
func run(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	if err := fn(ctx, a); err != nil {
		a.logger.Error("command failed", "command", cmd.Name(), "kind", program.Classify(err).String(), "error", err)
		return err
	}
	return nil
}

func (a *app) loadPool(ctx context.Context, key solana.PublicKey) (*clmm.Pool, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load pool %s: %w", key, err)
	}
	return clmm.DecodePool(key, data)
}
