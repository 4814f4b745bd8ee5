package sim

import (
	"fmt"
	"math"
	"time"

	"stairwell/internal/dclass"
	"stairwell/internal/eventlog"
	"stairwell/internal/personnel"
	"stairwell/internal/upgrade"
)

// Recruit buys n pool units with containment.
func (e *Engine) Recruit(n int) error {
	if n <= 0 {
		return fmt.Errorf("recruit %d: %w", n, ErrInvalidState)
	}
	if !e.st.Pool.HasRoom(float64(n)) {
		return ErrCapacityReached
	}
	cost := e.RecruitCost(n)
	if e.st.Resources.Containment < cost {
		return ErrInsufficientFunds
	}
	e.st.Resources.Containment -= cost
	e.st.Pool.Recruit(float64(n))
	e.record(eventlog.Info, eventlog.SourcePool, "%d D-Class recruited for %d.", n, int(cost))
	return nil
}

// Purchase buys the next level of an upgrade with energy.
func (e *Engine) Purchase(id upgrade.ID) error {
	def, ok := upgrade.Lookup(id)
	if !ok {
		return fmt.Errorf("upgrade %q: %w", id, ErrUnknownReference)
	}
	level := e.st.Upgrades[id]
	if level >= def.MaxLevel {
		return ErrMaxLevel
	}
	if !def.Unlocked(e.st.Upgrades) {
		return fmt.Errorf("upgrade %q requires %s: %w", id, def.Unlock, ErrLocked)
	}
	cost := def.Cost(level, e.cfg.Economy.UpgradeCostGrowth)
	if e.st.Resources.Energy < cost {
		return ErrInsufficientFunds
	}
	e.st.Resources.Energy -= cost
	if e.st.Upgrades == nil {
		e.st.Upgrades = upgrade.Levels{}
	}
	e.st.Upgrades[id] = level + 1
	e.applyUpgradeEffects()
	e.record(eventlog.Info, eventlog.SourceFacility, "%s upgraded to level %d.", def.Name, level+1)
	return nil
}

// ResetFacility trades containment for knowledge and restarts everything else.
func (e *Engine) ResetFacility() float64 {
	gained := 0.0
	if per := e.cfg.Economy.KnowledgePerReset; per > 0 {
		gained = math.Floor(e.st.Resources.Containment / per)
	}
	knowledge := e.st.Resources.Knowledge + gained
	seq := e.st.NextEncounterSeq

	e.st = NewState(e.cfg, e.now())
	e.st.Resources.Knowledge = knowledge
	e.st.NextEncounterSeq = seq
	e.applyUpgradeEffects()

	e.record(eventlog.Critical, eventlog.SourceFacility, "Facility reset. +%d knowledge (total %d).", int(gained), int(knowledge))
	return gained
}

// UpgradePersonnel raises one attribute of a roster member with energy.
func (e *Engine) UpgradePersonnel(id string, attr personnel.Attribute) error {
	p := e.st.findPersonnel(id)
	if p == nil {
		return fmt.Errorf("personnel %q: %w", id, ErrUnknownReference)
	}
	if p.Status == personnel.Lost {
		return fmt.Errorf("personnel %q is lost: %w", id, ErrInvalidState)
	}
	cost, ok := personnel.UpgradeCost(p, attr, e.cfg.Personnel)
	if !ok {
		return fmt.Errorf("attribute %q: %w", attr, ErrUnknownReference)
	}
	if attr == personnel.AttrSurvival && p.SurvivalRate >= e.cfg.Personnel.SurvivalCap {
		return ErrMaxLevel
	}
	if e.st.Resources.Energy < cost {
		return ErrInsufficientFunds
	}
	e.st.Resources.Energy -= cost
	personnel.ApplyUpgrade(p, attr, e.cfg.Personnel)
	e.record(eventlog.Info, eventlog.SourcePersonnel, "%s trained: %s.", p.Name, attr)
	return nil
}

// ReplacePersonnel swaps a roster slot for a fresh recruit of the same role.
func (e *Engine) ReplacePersonnel(id string) error {
	p := e.st.findPersonnel(id)
	if p == nil {
		return fmt.Errorf("personnel %q: %w", id, ErrUnknownReference)
	}
	cost := e.cfg.Personnel.ReplaceCost
	if e.st.Resources.Energy < cost {
		return ErrInsufficientFunds
	}
	e.st.Resources.Energy -= cost
	old := p.Name
	personnel.Reset(p, e.rng)
	p.Active = e.st.TeamActive
	e.redistribute()
	e.record(eventlog.Info, eventlog.SourcePersonnel, "%s replaced by %s.", old, p.Name)
	return nil
}

// ToggleFlashlight flips the light and reports whether it is now on.
func (e *Engine) ToggleFlashlight() bool {
	fl := &e.st.Flashlight
	fl.Toggle()
	if !fl.On && fl.Depleted() {
		e.record(eventlog.Warning, eventlog.SourceFlashlight, "Flashlight has no charge.")
	}
	return fl.On
}

// ManualCharge cranks the flashlight by the fixed manual amount.
func (e *Engine) ManualCharge() {
	e.st.Flashlight.ManualCharge(e.cfg.Flashlight.ManualCharge)
}

// TimedRecharge schedules a full recharge. A second request while one is
// pending is rejected.
func (e *Engine) TimedRecharge() error {
	d := time.Duration(e.cfg.Flashlight.TimedRechargeMs) * time.Millisecond
	if !e.st.Flashlight.StartTimedRecharge(e.now(), d) {
		return ErrRechargePending
	}
	e.record(eventlog.Info, eventlog.SourceFlashlight, "Flashlight recharging.")
	return nil
}

func (e *Engine) completeRecharge(now time.Time) {
	if e.st.Flashlight.CompleteTimedRecharge(now) {
		e.record(eventlog.Info, eventlog.SourceFlashlight, "Flashlight fully recharged.")
	}
}

// RecruitCost is the containment price of n recruits right now.
func (e *Engine) RecruitCost(n int) float64 {
	return dclass.RecruitCost(e.cfg.Pool, e.st.Pool.Count, n)
}
