package sim

import (
	"testing"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/encounter"
	"stairwell/internal/eventlog"
	"stairwell/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_IsDeepCopy(t *testing.T) {
	e, clock, _ := newEngineForTest(t, nil)
	enc := e.spawn(encounter.Anomaly, 0, clock.Now())
	require.NoError(t, e.StartInteraction(enc.ID))

	snap := e.Snapshot()
	snap.Personnel[0].Name = "changed"
	*snap.Encounters[0].ProgressStartedAt = time.Time{}
	snap.Upgrades["advanced_battery"] = 9

	assert.Equal(t, "Operative Δ-7", e.st.Personnel[0].Name)
	assert.False(t, e.st.Encounters[0].ProgressStartedAt.IsZero())
	assert.Zero(t, e.st.Upgrades["advanced_battery"])
}

func TestSnapshot_RoundTripReplaysIdentically(t *testing.T) {
	a, clockA, _ := newEngineForTest(t, game.NewRand(42))
	a.st.Resources.Energy = 5000
	require.NoError(t, a.Deploy())
	require.NoError(t, a.Purchase("auto_recharge"))
	a.ToggleFlashlight()

	for i := 0; i < 30; i++ {
		clockA.Advance(time.Second)
		a.FixedTick()
		a.FastTick(0.05)
		if len(a.st.Encounters) > 0 && !a.st.Encounters[0].InProgress {
			_ = a.StartInteraction(a.st.Encounters[0].ID)
		}
	}

	raw, err := EncodeSnapshot(a.Snapshot())
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	cfg := config.Default()
	clockB := game.NewFakeClock(clockA.Now())
	b := NewEngine(Options{Config: &cfg, Clock: clockB, Rand: game.NewRand(7)})
	b.Restore(decoded)
	a.SetRand(game.NewRand(7))

	for i := 0; i < 100; i++ {
		clockA.Advance(time.Second)
		clockB.Advance(time.Second)
		a.FixedTick()
		b.FixedTick()
		a.FastTick(0.05)
		b.FastTick(0.05)
		if i%7 == 0 {
			a.ToggleFlashlight()
			b.ToggleFlashlight()
		}

		ja, err := EncodeSnapshot(a.Snapshot())
		require.NoError(t, err)
		jb, err := EncodeSnapshot(b.Snapshot())
		require.NoError(t, err)
		require.JSONEq(t, string(ja), string(jb), "diverged at tick %d", i)
	}
}

func TestDecodeSnapshot_MigratesV1(t *testing.T) {
	raw := []byte(`{
		"version": 1,
		"resources": {"energy": 50},
		"team_active": false,
		"team_deployed": true,
		"current_depth": 240,
		"pool": {"count": 6, "capacity": 50, "assigned": 4, "mortality_rate": 0.5},
		"encounters": [
			{"id": "enc_7", "type": "hostile", "position": 300, "expires_at": "2026-01-01T09:00:20Z"},
			{"id": "n1", "type": "neutral", "position": 320, "expires_at": "2026-01-01T09:00:12Z"}
		]
	}`)

	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	assert.Equal(t, SnapshotVersion, s.Version)
	assert.True(t, s.TeamActive)
	assert.True(t, s.TeamDeployed())
	require.Len(t, s.Encounters, 2)
	assert.Equal(t, encounter.Hostile, s.Encounters[0].Kind)
	assert.Equal(t, 300.0, s.Encounters[0].Depth)
	assert.Equal(t, encounter.Anomaly, s.Encounters[1].Kind)
	assert.Equal(t, 8, s.NextEncounterSeq)
	assert.Empty(t, s.Personnel)

	e, _, log := newEngineForTest(t, nil)
	e.Restore(s)

	assert.Len(t, e.st.Personnel, 3)
	assert.Equal(t, 1, log.Count(eventlog.Info, eventlog.SourceRepair))
	assert.Equal(t, 3, e.st.Encounters[0].RequiredUnits)
	assert.Equal(t, 225.0, e.st.Encounters[0].Reward)
	assert.Equal(t, start, e.st.Encounters[0].CreatedAt)

	e.FixedTick()
	requireInvariants(t, e)
}

func TestDecodeSnapshot_LegacyFlagsNeedAssignedUnits(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"team_active": true, "team_deployed": true, "pool": {"assigned": 0}}`))
	require.NoError(t, err)
	assert.False(t, s.TeamActive)
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"version": 9}`))
	assert.ErrorContains(t, err, "unsupported snapshot version 9")

	_, err = DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)
}
