package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vueltra/vueltra-property2-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_Memory(t *testing.T) {
	repo, cleanup, err := Open(context.Background(), &config.Config{StateBackend: config.BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &MemoryRepository{}, repo)
}

func TestOpen_SQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StateBackend: config.BackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "state.db"),
		LogLevel:     "silent",
	}

	repo, cleanup, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, "vueltra_state_v3", []byte(`{"users":[]}`)))
	cleanup()

	repo, cleanup, err = Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	v, found, err := repo.Get(ctx, "vueltra_state_v3")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"users":[]}`, string(v))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{StateBackend: "floppy"}, zap.NewNop())
	assert.ErrorContains(t, err, "floppy")
}
