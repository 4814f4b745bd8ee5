package flashlight

import (
	"math"
	"time"

	"stairwell/internal/config"
)

// State is the single depletable, rechargeable utility gauge.
type State struct {
	On                bool    `json:"on"`
	Charge            float64 `json:"charge"`
	Capacity          float64 `json:"capacity"`
	DrainPerSecond    float64 `json:"drain_per_second"`
	RechargePerSecond float64 `json:"recharge_per_second"`
	LowThreshold      float64 `json:"low_threshold"`

	// RechargeReadyAt is set while a timed full recharge is pending.
	RechargeReadyAt *time.Time `json:"recharge_ready_at,omitempty"`
}

func New(cfg config.FlashlightConfig) State {
	return State{
		On:                false,
		Charge:            cfg.Capacity,
		Capacity:          cfg.Capacity,
		DrainPerSecond:    cfg.DrainPerSecond,
		RechargePerSecond: cfg.RechargePerSecond,
		LowThreshold:      cfg.LowThreshold,
	}
}

// Lit reports whether the beam is actually shining.
func (s State) Lit() bool {
	return s.On && s.Charge > 0
}

func (s State) Low() bool {
	return s.Charge <= s.LowThreshold
}

func (s State) Depleted() bool {
	return s.Charge <= 0
}

// Toggle flips the switch. A dead battery cannot be switched on.
func (s *State) Toggle() {
	s.On = !s.On
	if s.Charge <= 0 {
		s.On = false
	}
}

// Drain burns charge while on. Returns true when this call emptied the battery
// and forced the light off.
func (s *State) Drain(dt float64) bool {
	if !s.On || dt <= 0 {
		return false
	}
	s.Charge = math.Max(0, s.Charge-s.DrainPerSecond*dt)
	if s.Charge == 0 {
		s.On = false
		return true
	}
	return false
}

// AutoRechargeRate is the passive rate granted by the owned auto-recharge level.
func AutoRechargeRate(cfg config.FlashlightConfig, level int) float64 {
	if level <= 0 {
		return 0
	}
	return cfg.RechargePerSecond + float64(level-1)*cfg.RechargePerExtraLvl
}

// AutoRecharge refills while the light is off. It is a no-op at level 0.
func (s *State) AutoRecharge(dt float64, rate float64) {
	if s.On || dt <= 0 || rate <= 0 {
		return
	}
	s.Charge = math.Min(s.Capacity, s.Charge+rate*dt)
}

// ManualCharge adds a flat amount regardless of upgrades, capped at capacity.
func (s *State) ManualCharge(amount float64) {
	s.Charge = math.Min(s.Capacity, s.Charge+amount)
}

// StartTimedRecharge schedules a full recharge. Returns false when one is
// already pending.
func (s *State) StartTimedRecharge(now time.Time, d time.Duration) bool {
	if s.RechargeReadyAt != nil {
		return false
	}
	ready := now.Add(d)
	s.RechargeReadyAt = &ready
	return true
}

// CompleteTimedRecharge finishes a pending recharge once now reaches it.
func (s *State) CompleteTimedRecharge(now time.Time) bool {
	if s.RechargeReadyAt == nil || now.Before(*s.RechargeReadyAt) {
		return false
	}
	s.Charge = s.Capacity
	s.RechargeReadyAt = nil
	return true
}

// ApplyUpgrades recomputes capacity and drain from the base tuning.
// The advanced battery compounds +1% capacity and -1% drain per level; the
// synergy level scales both again. Drain never drops below the floor.
func (s *State) ApplyUpgrades(cfg config.FlashlightConfig, batteryLevel, synergyLevel int) {
	capacity := cfg.Capacity * math.Pow(1+cfg.CapacityPerLevel, float64(batteryLevel))
	drain := cfg.DrainPerSecond * math.Pow(1-cfg.DrainReductionPerLvl, float64(batteryLevel))

	if synergyLevel > 0 {
		capacity *= 1 + cfg.SynergyCapacityBonus*float64(synergyLevel)
		drain *= math.Max(0, 1-cfg.SynergyDrainCut*float64(synergyLevel))
	}

	s.Capacity = capacity
	s.DrainPerSecond = math.Max(cfg.MinDrainPerSecond, drain)
	s.Normalize()
}

// Normalize restores the gauge invariants: 0 <= charge <= capacity and a dead
// battery is off. Returns true if anything changed.
func (s *State) Normalize() bool {
	changed := false
	if s.Capacity <= 0 || math.IsNaN(s.Capacity) {
		s.Capacity = 1
		changed = true
	}
	if s.Charge < 0 || math.IsNaN(s.Charge) {
		s.Charge = 0
		changed = true
	}
	if s.Charge > s.Capacity {
		s.Charge = s.Capacity
		changed = true
	}
	if s.Charge == 0 && s.On {
		s.On = false
		changed = true
	}
	return changed
}
