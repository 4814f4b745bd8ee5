package flashlight

import (
	"testing"
	"time"

	"stairwell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLight() State {
	return New(config.Default().Flashlight)
}

func TestDrain_EmptiesAndForcesOff(t *testing.T) {
	s := newLight()
	s.On = true

	emptied := s.Drain(20)

	assert.True(t, emptied)
	assert.Equal(t, 0.0, s.Charge)
	assert.False(t, s.On)
}

func TestDrain_NoOpWhenOff(t *testing.T) {
	s := newLight()
	s.Drain(5)
	assert.Equal(t, 100.0, s.Charge)
}

func TestToggle_CannotLightDeadBattery(t *testing.T) {
	s := newLight()
	s.Charge = 0
	s.Toggle()
	assert.False(t, s.On)

	s.Charge = 10
	s.Toggle()
	assert.True(t, s.On)
	assert.Equal(t, 10.0, s.Charge)
}

func TestAutoRecharge_OnlyWhileOffAndCapped(t *testing.T) {
	cfg := config.Default().Flashlight
	s := newLight()
	s.Charge = 50

	assert.Equal(t, 0.0, AutoRechargeRate(cfg, 0))
	assert.Equal(t, 22.0, AutoRechargeRate(cfg, 1))
	assert.Equal(t, 32.0, AutoRechargeRate(cfg, 3))

	s.AutoRecharge(1, AutoRechargeRate(cfg, 1))
	assert.Equal(t, 72.0, s.Charge)

	s.AutoRecharge(10, AutoRechargeRate(cfg, 1))
	assert.Equal(t, 100.0, s.Charge)

	s.Charge = 50
	s.On = true
	s.AutoRecharge(1, AutoRechargeRate(cfg, 1))
	assert.Equal(t, 50.0, s.Charge)
}

func TestManualCharge_FlatAndCapped(t *testing.T) {
	s := newLight()
	s.Charge = 10
	s.ManualCharge(15)
	assert.Equal(t, 25.0, s.Charge)

	s.Charge = 95
	s.ManualCharge(15)
	assert.Equal(t, 100.0, s.Charge)
}

func TestTimedRecharge_RejectsSecondRequest(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newLight()
	s.Charge = 5

	require.True(t, s.StartTimedRecharge(now, 3*time.Second))
	assert.False(t, s.StartTimedRecharge(now.Add(time.Second), 3*time.Second))

	assert.False(t, s.CompleteTimedRecharge(now.Add(2*time.Second)))
	assert.Equal(t, 5.0, s.Charge)

	assert.True(t, s.CompleteTimedRecharge(now.Add(3*time.Second)))
	assert.Equal(t, 100.0, s.Charge)
	assert.Nil(t, s.RechargeReadyAt)
}

func TestApplyUpgrades_CompoundsAndFloorsDrain(t *testing.T) {
	cfg := config.Default().Flashlight
	s := newLight()

	s.ApplyUpgrades(cfg, 10, 0)
	assert.InDelta(t, 110.46, s.Capacity, 0.01)
	assert.InDelta(t, 5.426, s.DrainPerSecond, 0.001)

	s.ApplyUpgrades(cfg, 0, 20)
	assert.Equal(t, cfg.MinDrainPerSecond, s.DrainPerSecond)
	assert.InDelta(t, 300, s.Capacity, 0.001)
}

func TestNormalize_ClampsCharge(t *testing.T) {
	s := newLight()
	s.Charge = 150
	assert.True(t, s.Normalize())
	assert.Equal(t, 100.0, s.Charge)

	s.Charge = 0
	s.On = true
	assert.True(t, s.Normalize())
	assert.False(t, s.On)
	assert.False(t, s.Normalize())
}
