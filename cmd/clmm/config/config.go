// Package config loads the settings of the clmm command from a YAML file,
// CLMM_ environment variables and command line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultProgramID is the program id pool addresses are derived from when
// none is configured.
const DefaultProgramID = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Program ProgramConfig `mapstructure:"program"`
	Clock   ClockConfig   `mapstructure:"clock"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	// DSN is the database file for sqlite and the connection string for
	// postgres.
	DSN string `mapstructure:"dsn"`
}

type ProgramConfig struct {
	ID string `mapstructure:"id"`
}

type ClockConfig struct {
	EpochSeconds uint64 `mapstructure:"epoch_seconds"`
	// Timestamp pins the clock when non-zero.
	Timestamp int64 `mapstructure:"timestamp"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Program: ProgramConfig{
			ID: DefaultProgramID,
		},
		Clock: ClockConfig{
			EpochSeconds: 172_800,
		},
	}
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"log-level":           "log.level",
	"log-format":          "log.format",
	"store-driver":        "store.driver",
	"store-dsn":           "store.dsn",
	"program-id":          "program.id",
	"clock-epoch-seconds": "clock.epoch_seconds",
	"clock-timestamp":     "clock.timestamp",
}

// Load reads the config file at path, or clmm.yaml in the working directory
// when path is empty, then applies environment variables and the flags in
// flags that were set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.dsn", def.Store.DSN)
	v.SetDefault("program.id", def.Program.ID)
	v.SetDefault("clock.epoch_seconds", def.Clock.EpochSeconds)
	v.SetDefault("clock.timestamp", def.Clock.Timestamp)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("clmm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CLMM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for the %s driver", c.Store.Driver)
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	if _, err := c.Program.PublicKey(); err != nil {
		return err
	}
	if c.Clock.Timestamp < 0 {
		return fmt.Errorf("config: clock.timestamp cannot be negative")
	}
	return nil
}

func (c *LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q: %w", c.Level, err)
	}
	return level, nil
}

// NewLogger builds the root logger writing to w.
func (c *LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c *ProgramConfig) PublicKey() (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(c.ID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("config: invalid program.id %q: %w", c.ID, err)
	}
	return key, nil
}
