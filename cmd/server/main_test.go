package main

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/eventlog"
	"stairwell/internal/game"
	"stairwell/internal/save"
	"stairwell/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = log.New(io.Discard, "", 0)

func TestBootEngine_NewGame(t *testing.T) {
	cfg := config.Default()
	clock := game.NewFakeClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	repo := save.NewMemoryRepo(clock)

	eng, err := bootEngine(context.Background(), cfg, clock, eventlog.Discard, repo, quiet)
	require.NoError(t, err)
	assert.Zero(t, eng.Snapshot().TickCount)
}

func TestBootEngine_ResumesAndCatchesUp(t *testing.T) {
	cfg := config.Default()
	clock := game.NewFakeClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	repo := save.NewMemoryRepo(clock)

	first, err := bootEngine(context.Background(), cfg, clock, eventlog.Discard, repo, quiet)
	require.NoError(t, err)
	first.FixedTick()
	_, err = repo.Store(context.Background(), first.Snapshot())
	require.NoError(t, err)

	clock.Advance(10 * cfg.Tick.Fixed())
	events := eventlog.NewMemoryLog(50, clock)
	second, err := bootEngine(context.Background(), cfg, clock, events, repo, quiet)
	require.NoError(t, err)
	assert.Equal(t, int64(11), second.Snapshot().TickCount)
	assert.Equal(t, 1, events.Count(eventlog.Info, eventlog.SourceFacility))
}

func TestAutosaver_RespectsInterval(t *testing.T) {
	clock := game.NewFakeClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	repo := save.NewMemoryRepo(clock)
	a := newAutosaver(repo, clock, 30*time.Second, quiet)

	a.maybeSave(sim.State{Version: sim.SnapshotVersion})
	_, _, err := repo.Load(context.Background())
	require.ErrorIs(t, err, save.ErrNotFound)

	clock.Advance(31 * time.Second)
	a.maybeSave(sim.State{Version: sim.SnapshotVersion, TickCount: 31})
	s, meta, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(31), s.TickCount)
	assert.Equal(t, clock.Now(), meta.SavedAt)

	clock.Advance(time.Second)
	a.maybeSave(sim.State{Version: sim.SnapshotVersion, TickCount: 32})
	s, _, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(31), s.TickCount)
}
