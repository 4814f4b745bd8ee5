package upgrade

import "math"

// Modifiers is the folded effect of every owned level.
type Modifiers struct {
	BatteryLevel      int
	AutoRechargeLevel int
	SynergyLevel      int
	MortalityFactor   float64
	ExtraCapacity     float64
	ExtraGeneration   float64
}

// Resolve folds owned levels into simulation modifiers.
func Resolve(levels Levels) Modifiers {
	m := Modifiers{MortalityFactor: 1}
	for _, d := range catalog {
		n := levels[d.ID]
		if n <= 0 {
			continue
		}
		if d.MaxLevel > 0 && n > d.MaxLevel {
			n = d.MaxLevel
		}
		switch d.Effect.Kind {
		case EffectBatteryEfficiency:
			m.BatteryLevel += n
		case EffectAutoRecharge:
			m.AutoRechargeLevel += n
		case EffectBeamSynergy:
			m.SynergyLevel += n
		case EffectMortalityReduction:
			m.MortalityFactor *= math.Pow(d.Effect.Magnitude, float64(n))
		case EffectPoolCapacity:
			m.ExtraCapacity += d.Effect.Magnitude * float64(n)
		case EffectPoolGeneration:
			m.ExtraGeneration += d.Effect.Magnitude * float64(n)
		}
	}
	return m
}
