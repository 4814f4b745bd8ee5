package personnel

import (
	"math"

	"stairwell/internal/config"
)

type Role string

const (
	Scout    Role = "Scout"
	Research Role = "Research"
	Handler  Role = "Handler"
)

type Status string

const (
	Active  Status = "active"
	Blocked Status = "blocked"
	Lost    Status = "lost"
	Injured Status = "injured"
)

// Attribute names an upgradable personnel stat.
type Attribute string

const (
	AttrLevel    Attribute = "level"
	AttrSurvival Attribute = "survival"
	AttrSpeed    Attribute = "speed"
)

type Personnel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          Role    `json:"role"`
	Lane          string  `json:"lane"`
	Depth         float64 `json:"depth"`
	Level         int     `json:"level"`
	Experience    float64 `json:"experience"`
	SpeedFactor   float64 `json:"speed_factor"`
	SurvivalRate  float64 `json:"survival_rate"`
	Active        bool    `json:"active"`
	Status        Status  `json:"status"`
	BlockedBy     string  `json:"blocked_by,omitempty"`
	AssignedUnits float64 `json:"assigned_units"`
}

// CanMove reports whether p advances this tick.
func (p *Personnel) CanMove() bool {
	return p.Active && !p.IsBlocked() && p.Status != Lost
}

// IsBlocked is true while an encounter holds p. An injured member keeps the
// Injured status while held.
func (p *Personnel) IsBlocked() bool {
	return p.Status == Blocked || p.BlockedBy != ""
}

// Block records the encounter holding p in place.
func (p *Personnel) Block(encounterID string) {
	p.BlockedBy = encounterID
	if p.Status == Active {
		p.Status = Blocked
	}
}

// Unblock releases p. Injured personnel stay injured once freed.
func (p *Personnel) Unblock() {
	p.BlockedBy = ""
	if p.Status == Blocked {
		p.Status = Active
	}
}

// Deactivate takes p off the stairs without touching injuries or losses.
func (p *Personnel) Deactivate() {
	p.Active = false
	p.AssignedUnits = 0
	p.Unblock()
}

// Advance moves p down by distance and accrues experience.
func (p *Personnel) Advance(distance, experienceRate float64) {
	if distance <= 0 {
		return
	}
	p.Depth += distance
	p.Experience += distance * experienceRate
}

// Wound applies a failed survival roll: healthy personnel become injured,
// injured personnel are lost.
func (p *Personnel) Wound() Status {
	if p.Status == Injured {
		p.Status = Lost
		p.Active = false
		p.AssignedUnits = 0
	} else {
		p.Status = Injured
	}
	p.BlockedBy = ""
	return p.Status
}

// Speed returns the per-second descent for p under the current light.
func Speed(p *Personnel, cfg config.PersonnelConfig, lit bool) float64 {
	s := cfg.BaseSpeed * p.SpeedFactor
	if !lit {
		s *= cfg.DarkSpeedFactor
	}
	if p.Status == Injured {
		s *= cfg.InjuredSpeedFactor
	}
	return s
}

// UpgradeCost is the energy price of raising attr one step.
func UpgradeCost(p *Personnel, attr Attribute, cfg config.PersonnelConfig) (float64, bool) {
	switch attr {
	case AttrLevel:
		return cfg.LevelCostBase + cfg.LevelCostPerLevel*float64(p.Level), true
	case AttrSurvival:
		return math.Round(cfg.SurvivalCostBase + cfg.SurvivalCostScale*p.SurvivalRate), true
	case AttrSpeed:
		return math.Round(cfg.SpeedCostBase + cfg.SpeedCostScale*p.SpeedFactor), true
	}
	return 0, false
}

// ApplyUpgrade raises attr on p. Returns false if the attribute is unknown or
// already capped.
func ApplyUpgrade(p *Personnel, attr Attribute, cfg config.PersonnelConfig) bool {
	switch attr {
	case AttrLevel:
		p.Level++
		p.Experience = 0
		return true
	case AttrSurvival:
		if p.SurvivalRate >= cfg.SurvivalCap {
			return false
		}
		p.SurvivalRate = math.Min(cfg.SurvivalCap, p.SurvivalRate+cfg.SurvivalStep)
		return true
	case AttrSpeed:
		p.SpeedFactor += cfg.SpeedStep
		return true
	}
	return false
}
