package encounter

import (
	"testing"
	"time"

	"stairwell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNew_HostileFormulae(t *testing.T) {
	cfg := config.Default().Encounters
	e := New("enc_1", Hostile, 300, t0, cfg)

	assert.Equal(t, 225.0, e.Reward)
	assert.Equal(t, 11000.0, e.DurationMs)
	assert.InDelta(t, 0.30, e.CasualtyProbability, 1e-9)
	assert.Equal(t, 3, e.RequiredUnits)
	assert.Equal(t, t0.Add(20*time.Second), e.ExpiresAt)
	assert.True(t, e.Blocking)
	assert.False(t, e.InProgress)
}

func TestNew_AnomalyFormulae(t *testing.T) {
	cfg := config.Default().Encounters
	e := New("enc_2", Anomaly, 1000, t0, cfg)

	assert.Equal(t, 140.0, e.Reward)
	assert.Equal(t, 9000.0, e.DurationMs)
	assert.InDelta(t, 0.30, e.CasualtyProbability, 1e-9)
	assert.Equal(t, 3, e.RequiredUnits)
	assert.Equal(t, t0.Add(12*time.Second), e.ExpiresAt)
}

func TestRequiredUnits_Minimums(t *testing.T) {
	cfg := config.Default().Encounters
	assert.Equal(t, 2, RequiredUnits(cfg.Hostile, 0))
	assert.Equal(t, 1, RequiredUnits(cfg.Anomaly, 0))
}

func TestCasualtyProbability_Capped(t *testing.T) {
	cfg := config.Default().Encounters
	assert.Equal(t, 0.9, CasualtyProbability(cfg.Hostile, 10000))
	assert.Equal(t, 0.5, CasualtyProbability(cfg.Anomaly, 10000))
}

func TestExpired_BoundaryIsInclusive(t *testing.T) {
	e := Encounter{ExpiresAt: t0}
	assert.True(t, e.Expired(t0))
	assert.True(t, e.Expired(t0.Add(time.Millisecond)))
	assert.False(t, e.Expired(t0.Add(-time.Millisecond)))

	e.InProgress = true
	assert.False(t, e.Expired(t0.Add(time.Hour)))
}

func TestProgressAndRelease(t *testing.T) {
	cfg := config.Default().Encounters
	e := New("enc_3", Anomaly, 0, t0, cfg)
	e.Start(t0)

	require.True(t, e.Valid())
	assert.Equal(t, 1.0, e.Committed)
	assert.Equal(t, InProgress, e.Phase())
	assert.InDelta(t, 0.5, e.Progress(t0.Add(2*time.Second)), 1e-9)
	assert.False(t, e.Done(t0.Add(3999*time.Millisecond)))
	assert.True(t, e.Done(t0.Add(4*time.Second)))

	held := e.Release(t0.Add(time.Second), Timeout(cfg.Anomaly))
	assert.Equal(t, 1.0, held)
	assert.Equal(t, Spawned, e.Phase())
	assert.Nil(t, e.ProgressStartedAt)
	assert.Equal(t, t0.Add(13*time.Second), e.ExpiresAt)
}

func TestCompletionReward(t *testing.T) {
	e := Encounter{Reward: 100, Depth: 500}
	assert.Equal(t, 150.0, CompletionReward(&e, 1000))
}
