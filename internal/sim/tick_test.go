package sim

import (
	"testing"
	"time"

	"stairwell/internal/encounter"
	"stairwell/internal/eventlog"
	"stairwell/internal/game"
	"stairwell/internal/upgrade"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndRepair_ActiveWithoutAssigned(t *testing.T) {
	e, _, log := newEngineForTest(t, nil)
	e.st.TeamActive = true
	e.st.Personnel[0].Active = true
	e.st.Personnel[1].Block("enc_gone")
	e.st.Pool.Count = -3

	fixes := e.ValidateAndRepair()

	assert.GreaterOrEqual(t, len(fixes), 3)
	assert.False(t, e.st.TeamActive)
	assert.Equal(t, 0.0, e.st.Pool.Count)
	assert.Empty(t, e.st.Personnel[1].BlockedBy)
	assert.Equal(t, 1, log.Count("", ""))
	assert.Equal(t, 1, log.Count(eventlog.Info, eventlog.SourceRepair))
	requireInvariants(t, e)
}

func TestValidateAndRepair_CleanStateIsSilent(t *testing.T) {
	e, _, log := newEngineForTest(t, nil)
	require.NoError(t, e.Deploy())
	log.Clear()

	assert.Empty(t, e.ValidateAndRepair())
	assert.Equal(t, 0, log.Count("", ""))
}

func TestValidateAndRepair_RedistributesActiveTeam(t *testing.T) {
	e, _, log := newEngineForTest(t, nil)
	require.NoError(t, e.Deploy())
	for i := range e.st.Personnel {
		e.st.Personnel[i].Active = false
		e.st.Personnel[i].AssignedUnits = 0
	}
	log.Clear()

	fixes := e.ValidateAndRepair()

	require.Len(t, fixes, 1)
	assert.True(t, e.st.TeamActive)
	for _, p := range e.st.Personnel {
		assert.True(t, p.Active)
		assert.InDelta(t, 4.0/3.0, p.AssignedUnits, 1e-9)
	}
	assert.Equal(t, 1, log.Count(eventlog.Info, eventlog.SourceRepair))
}

func TestValidateAndRepair_InProgressTiming(t *testing.T) {
	e, clock, _ := newEngineForTest(t, nil)
	e.st.Encounters = append(e.st.Encounters, encounter.Encounter{
		ID: "enc_1", Kind: encounter.Hostile, Depth: 200, InProgress: true, Committed: 2, ExpiresAt: clock.Now(),
	})
	e.st.Pool.Assigned = 2

	fixes := e.ValidateAndRepair()

	require.Len(t, fixes, 1)
	enc := e.st.Encounters[0]
	require.NotNil(t, enc.ProgressStartedAt)
	assert.Equal(t, 10000.0, enc.DurationMs)
	assert.Equal(t, 2.0, e.st.Pool.Assigned)
}

func TestFixedTick_RepairRunsBeforeSpawn(t *testing.T) {
	e, _, _ := newEngineForTest(t, game.NewScriptedRand(0.0))
	e.st.TeamActive = true

	e.FixedTick()

	assert.False(t, e.st.TeamActive)
	assert.Empty(t, e.st.Encounters)
	requireInvariants(t, e)
}

func TestFixedTick_IdleAccrual(t *testing.T) {
	e, _, _ := newEngineForTest(t, nil)

	e.FixedTick()

	assert.Equal(t, 1.0, e.st.Resources.Energy)
	assert.Equal(t, 0.0, e.st.Resources.Containment)
	assert.InDelta(t, 10+1.0/60, e.st.Pool.Count, 1e-9)
	assert.Equal(t, int64(1), e.st.TickCount)
}

func TestFixedTick_SpawnsAheadWhileDeployedAndCaps(t *testing.T) {
	e, _, _ := newEngineForTest(t, game.NewScriptedRand(0.0))
	require.NoError(t, e.Deploy())

	e.FixedTick()

	require.Len(t, e.st.Encounters, 1)
	enc := e.st.Encounters[0]
	assert.Equal(t, encounter.Hostile, enc.Kind)
	assert.Equal(t, 108.0, enc.Depth)

	for i := 0; i < 10; i++ {
		e.FixedTick()
	}
	assert.Len(t, e.st.Encounters, e.cfg.Encounters.MaxConcurrent)
	requireInvariants(t, e)
}

func TestFixedTick_NoSpawnWhileIdle(t *testing.T) {
	e, _, _ := newEngineForTest(t, game.NewScriptedRand(0.0))
	for i := 0; i < 5; i++ {
		e.FixedTick()
	}
	assert.Empty(t, e.st.Encounters)
}

func TestFastTick_DrainForcesOff(t *testing.T) {
	e, _, log := newEngineForTest(t, game.NewScriptedRand(0.99))
	e.st.Flashlight.On = true
	e.st.Flashlight.Charge = 0.3

	e.FastTick(0.1)

	assert.Equal(t, 0.0, e.st.Flashlight.Charge)
	assert.False(t, e.st.Flashlight.On)
	assert.Equal(t, 1, log.Count(eventlog.Warning, eventlog.SourceFlashlight))
}

func TestFastTick_DtIsCapped(t *testing.T) {
	e, _, _ := newEngineForTest(t, game.NewScriptedRand(0.99))
	e.st.Flashlight.On = true

	e.FastTick(5)

	assert.InDelta(t, 99.4, e.st.Flashlight.Charge, 1e-9)
}

func TestFastTick_AutoRechargeNeedsUpgrade(t *testing.T) {
	e, _, _ := newEngineForTest(t, game.NewScriptedRand(0.99))
	e.st.Flashlight.Charge = 50

	e.FastTick(0.1)
	assert.Equal(t, 50.0, e.st.Flashlight.Charge)

	e.st.Upgrades[upgrade.AutoRecharge] = 1
	e.applyUpgradeEffects()
	e.FastTick(0.1)
	assert.InDelta(t, 52.2, e.st.Flashlight.Charge, 1e-9)
}

func TestFastTick_SpawnsOnlyWhenLit(t *testing.T) {
	e, _, _ := newEngineForTest(t, game.NewScriptedRand(0.0))
	require.NoError(t, e.Deploy())

	e.FastTick(0.05)
	assert.Empty(t, e.st.Encounters)

	e.ToggleFlashlight()
	e.FastTick(0.05)
	assert.Len(t, e.st.Encounters, 1)
}

func TestTimedRecharge(t *testing.T) {
	e, clock, _ := newEngineForTest(t, game.NewScriptedRand(0.99))
	e.st.Flashlight.Charge = 10

	require.NoError(t, e.TimedRecharge())
	assert.ErrorIs(t, e.TimedRecharge(), ErrRechargePending)

	clock.Advance(2 * time.Second)
	e.FixedTick()
	assert.Equal(t, 10.0, e.st.Flashlight.Charge)

	clock.Advance(time.Second)
	e.FixedTick()
	assert.Equal(t, 100.0, e.st.Flashlight.Charge)
	assert.NoError(t, e.TimedRecharge())
}

func TestCatchUp_ReplaysElapsedTicks(t *testing.T) {
	e, _, log := newEngineForTest(t, nil)

	n := e.CatchUp(start.Add(10*time.Second + 500*time.Millisecond))

	assert.Equal(t, 10, n)
	assert.Equal(t, int64(10), e.st.TickCount)
	assert.Equal(t, start.Add(10*time.Second), e.st.LastTickAt)
	assert.Equal(t, 1, log.Count(eventlog.Info, eventlog.SourceFacility))
}

func TestCatchUp_Capped(t *testing.T) {
	e, _, _ := newEngineForTest(t, nil)
	e.cfg.Tick.OfflineMaxTicks = 5
	now := start.Add(time.Hour)

	assert.Equal(t, 5, e.CatchUp(now))
	assert.Equal(t, now, e.st.LastTickAt)
	assert.Equal(t, 0, e.CatchUp(now))
}

func TestTicks_InvariantsHoldUnderRandomPlay(t *testing.T) {
	e, clock, _ := newEngineForTest(t, game.NewRand(3))
	e.st.Resources.Energy = 1e6
	e.st.Resources.Containment = 1e6
	driver := game.NewRand(11)

	for i := 0; i < 600; i++ {
		switch driver.Intn(12) {
		case 0:
			_ = e.Deploy()
		case 1:
			_ = e.Recall()
		case 2, 3:
			if len(e.st.Encounters) > 0 {
				_ = e.StartInteraction(e.st.Encounters[driver.Intn(len(e.st.Encounters))].ID)
			}
		case 4:
			if len(e.st.Encounters) > 0 {
				e.Abort(e.st.Encounters[driver.Intn(len(e.st.Encounters))].ID)
			}
		case 5:
			e.ToggleFlashlight()
		case 6:
			_ = e.Recruit(1 + driver.Intn(5))
		case 7:
			_ = e.ReplacePersonnel(e.st.Personnel[driver.Intn(len(e.st.Personnel))].ID)
		}
		requireInvariants(t, e)

		for f := 0; f < 10; f++ {
			clock.Advance(100 * time.Millisecond)
			e.FastTick(0.1)
			requireInvariants(t, e)
		}
		e.FixedTick()
		requireInvariants(t, e)
	}
}
