package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clmm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
store:
  driver: sqlite
  dsn: /tmp/from-file.db
clock:
  epoch_seconds: 60
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
		assert.Equal(t, uint64(60), cfg.Clock.EpochSeconds)
		assert.Equal(t, DefaultProgramID, cfg.Program.ID)
	})

	t.Run("environment over file", func(t *testing.T) {
		t.Setenv("CLMM_STORE_DSN", "/tmp/from-env.db")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/from-env.db", cfg.Store.DSN)
	})

	t.Run("flags over environment", func(t *testing.T) {
		t.Setenv("CLMM_STORE_DSN", "/tmp/from-env.db")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("store-dsn", "", "")
		flags.String("log-level", "", "")
		require.NoError(t, flags.Parse([]string{"--store-dsn", "/tmp/from-flag.db"}))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/from-flag.db", cfg.Store.DSN)
		// Unset flags do not shadow the file.
		assert.Equal(t, "debug", cfg.Log.Level)
	})
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"unknown driver", "store:\n  driver: redis\n"},
		{"missing dsn", "store:\n  driver: postgres\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"bad program id", "program:\n  id: not-a-key\n"},
		{"negative timestamp", "clock:\n  timestamp: -1\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body), nil)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&LogConfig{Level: "warn", Format: "json"}).NewLogger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
