// Package upgrade is the facility upgrade catalog. Each definition carries one
// typed effect and an optional unlock predicate over the levels of others.
package upgrade

import (
	"fmt"
	"math"
	"strings"
)

type ID string

const (
	AdvancedBattery     ID = "advanced_battery"
	AutoRecharge        ID = "auto_recharge"
	BeamSynergy         ID = "beam_synergy"
	SurvivalTraining    ID = "survival_training"
	HoldingCapacity     ID = "holding_capacity"
	RecruitmentPipeline ID = "recruitment_pipeline"
)

// EffectKind is the closed set of things an upgrade can change.
type EffectKind int

const (
	EffectBatteryEfficiency EffectKind = iota + 1
	EffectAutoRecharge
	EffectBeamSynergy
	EffectMortalityReduction
	EffectPoolCapacity
	EffectPoolGeneration
)

func (k EffectKind) String() string {
	switch k {
	case EffectBatteryEfficiency:
		return "battery_efficiency"
	case EffectAutoRecharge:
		return "auto_recharge"
	case EffectBeamSynergy:
		return "beam_synergy"
	case EffectMortalityReduction:
		return "mortality_reduction"
	case EffectPoolCapacity:
		return "pool_capacity"
	case EffectPoolGeneration:
		return "pool_generation"
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect is applied once per owned level.
type Effect struct {
	Kind      EffectKind
	Magnitude float64
}

// Levels maps each owned upgrade to its level. Missing means zero.
type Levels map[ID]int

func (l Levels) Clone() Levels {
	out := make(Levels, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Predicate decides whether an upgrade is purchasable given current levels.
type Predicate interface {
	Satisfied(levels Levels) bool
	String() string
}

// RequiresLevel holds when upgrade ID is owned at Min or higher.
type RequiresLevel struct {
	ID  ID
	Min int
}

func (r RequiresLevel) Satisfied(levels Levels) bool {
	return levels[r.ID] >= r.Min
}

func (r RequiresLevel) String() string {
	return fmt.Sprintf("%s>=%d", r.ID, r.Min)
}

// AllOf holds when every member holds.
type AllOf []Predicate

func (a AllOf) Satisfied(levels Levels) bool {
	for _, p := range a {
		if !p.Satisfied(levels) {
			return false
		}
	}
	return true
}

func (a AllOf) String() string {
	parts := make([]string, 0, len(a))
	for _, p := range a {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " && ")
}

type Definition struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BaseCost    float64   `json:"base_cost"`
	MaxLevel    int       `json:"max_level"`
	Effect      Effect    `json:"-"`
	Unlock      Predicate `json:"-"`
}

// Unlocked reports whether the definition's predicate holds. Definitions
// without a predicate are always unlocked.
func (d Definition) Unlocked(levels Levels) bool {
	return d.Unlock == nil || d.Unlock.Satisfied(levels)
}

// Cost is the price of buying the next level when level are already owned.
func (d Definition) Cost(level int, growth float64) float64 {
	return math.Floor(d.BaseCost * math.Pow(growth, float64(level)))
}

var catalog = []Definition{
	{
		ID:          AdvancedBattery,
		Name:        "Advanced Battery",
		Description: "+1% flashlight capacity and -1% drain per level.",
		BaseCost:    50,
		MaxLevel:    10,
		Effect:      Effect{Kind: EffectBatteryEfficiency, Magnitude: 0.01},
	},
	{
		ID:          AutoRecharge,
		Name:        "Auto Recharge",
		Description: "Flashlight recharges while switched off.",
		BaseCost:    120,
		MaxLevel:    5,
		Effect:      Effect{Kind: EffectAutoRecharge, Magnitude: 5},
	},
	{
		ID:          BeamSynergy,
		Name:        "Beam Synergy",
		Description: "Tuned battery and charger: more capacity, less drain.",
		BaseCost:    400,
		MaxLevel:    3,
		Effect:      Effect{Kind: EffectBeamSynergy, Magnitude: 1},
		Unlock: AllOf{
			RequiresLevel{ID: AdvancedBattery, Min: 3},
			RequiresLevel{ID: AutoRecharge, Min: 1},
		},
	},
	{
		ID:          SurvivalTraining,
		Name:        "Survival Training",
		Description: "Pool mortality x0.9 per level.",
		BaseCost:    200,
		MaxLevel:    5,
		Effect:      Effect{Kind: EffectMortalityReduction, Magnitude: 0.9},
	},
	{
		ID:          HoldingCapacity,
		Name:        "Holding Capacity",
		Description: "+50 pool capacity per level.",
		BaseCost:    150,
		MaxLevel:    10,
		Effect:      Effect{Kind: EffectPoolCapacity, Magnitude: 50},
	},
	{
		ID:          RecruitmentPipeline,
		Name:        "Recruitment Pipeline",
		Description: "+0.5 pool units per minute per level.",
		BaseCost:    180,
		MaxLevel:    10,
		Effect:      Effect{Kind: EffectPoolGeneration, Magnitude: 0.5},
	},
}

// Catalog returns every definition in display order.
func Catalog() []Definition {
	return append([]Definition(nil), catalog...)
}

func Lookup(id ID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
