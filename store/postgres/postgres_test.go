package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/ParsaRahabarn/Solana-Dex/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	dsn := os.Getenv("CLMM_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("CLMM_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Truncate(ctx))

	storetest.Run(t, s)
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
