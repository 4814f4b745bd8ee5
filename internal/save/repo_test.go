package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/game"
	"stairwell/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func deployedState(t *testing.T) sim.State {
	t.Helper()
	cfg := config.Default()
	e := sim.NewEngine(sim.Options{Config: &cfg, Clock: game.NewFakeClock(t0), Rand: game.NewRand(5)})
	require.NoError(t, e.Deploy())
	e.FixedTick()
	return e.Snapshot()
}

func TestMemoryRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(game.NewFakeClock(t0))

	_, _, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	s := deployedState(t)
	meta, err := repo.Store(ctx, s)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.SaveID)
	assert.Equal(t, t0, meta.SavedAt)

	got, gotMeta, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta)
	assert.Equal(t, s.Pool, got.Pool)
	assert.True(t, got.TeamActive)
	assert.Equal(t, s.TickCount, got.TickCount)
}

func TestFileRepo_StoreLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "save.json")
	repo, err := NewFileRepo(path, game.NewFakeClock(t0))
	require.NoError(t, err)

	_, _, err = repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	s := deployedState(t)
	first, err := repo.Store(ctx, s)
	require.NoError(t, err)
	second, err := repo.Store(ctx, s)
	require.NoError(t, err)
	assert.NotEqual(t, first.SaveID, second.SaveID)

	got, meta, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.SaveID, meta.SaveID)
	assert.Equal(t, sim.SnapshotVersion, meta.Version)
	assert.Equal(t, s.Personnel, got.Personnel)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileRepo_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	repo, err := NewFileRepo(path, nil)
	require.NoError(t, err)

	_, _, err = repo.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDecode_BareLegacySnapshot(t *testing.T) {
	s, meta, err := Decode([]byte(`{"version":1,"team_active":true,"team_deployed":true,"pool":{"count":2,"assigned":4}}`))
	require.NoError(t, err)
	assert.Empty(t, meta.SaveID)
	assert.Equal(t, sim.SnapshotVersion, meta.Version)
	assert.True(t, s.TeamActive)
}
