package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_IDsUniqueAndEffectsKnown(t *testing.T) {
	seen := map[ID]bool{}
	for _, d := range Catalog() {
		require.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.NotContains(t, d.Effect.Kind.String(), "effect(")
		assert.Positive(t, d.MaxLevel)
	}
}

func TestBeamSynergy_UnlockPredicate(t *testing.T) {
	d, ok := Lookup(BeamSynergy)
	require.True(t, ok)

	assert.False(t, d.Unlocked(Levels{}))
	assert.False(t, d.Unlocked(Levels{AdvancedBattery: 3}))
	assert.False(t, d.Unlocked(Levels{AdvancedBattery: 2, AutoRecharge: 1}))
	assert.True(t, d.Unlocked(Levels{AdvancedBattery: 3, AutoRecharge: 1}))
	assert.Equal(t, "advanced_battery>=3 && auto_recharge>=1", d.Unlock.String())
}

func TestCost_Grows(t *testing.T) {
	d, _ := Lookup(AdvancedBattery)
	assert.Equal(t, 50.0, d.Cost(0, 1.15))
	assert.Equal(t, 57.0, d.Cost(1, 1.15))
	assert.Equal(t, 66.0, d.Cost(2, 1.15))
}

func TestResolve(t *testing.T) {
	m := Resolve(Levels{
		AdvancedBattery:     4,
		SurvivalTraining:    2,
		HoldingCapacity:     1,
		RecruitmentPipeline: 3,
	})

	assert.Equal(t, 4, m.BatteryLevel)
	assert.Equal(t, 0, m.AutoRechargeLevel)
	assert.InDelta(t, 0.81, m.MortalityFactor, 1e-9)
	assert.Equal(t, 50.0, m.ExtraCapacity)
	assert.Equal(t, 1.5, m.ExtraGeneration)

	assert.Equal(t, 1.0, Resolve(nil).MortalityFactor)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("jetpack")
	assert.False(t, ok)
}
