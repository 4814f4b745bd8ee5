package sim

import (
	"math"
	"time"

	"stairwell/internal/eventlog"
	"stairwell/internal/narrative"
	"stairwell/internal/personnel"
)

// FixedTick runs one slow-cadence step at the clock's current time.
func (e *Engine) FixedTick() {
	e.fixedTickAt(e.now())
}

// fixedTickAt is the ordered fixed-tick pipeline. Repair always runs first and
// culling always runs before progress.
func (e *Engine) fixedTickAt(now time.Time) {
	dt := e.cfg.Tick.Fixed().Seconds()

	e.repair(now)
	e.completeRecharge(now)
	e.accrue()
	e.st.Pool.Regenerate(dt)
	e.rollSpawn(now)
	e.cullExpired(now)
	e.updateProgress(now)
	e.moveAll(dt)
	e.ambientRisk(now)
	e.ambientNarrative()

	e.st.TickCount++
	e.st.TotalPlayTimeS += dt
	e.st.LastTickAt = now
}

// FastTick is the per-frame step. dt is in seconds and capped.
func (e *Engine) FastTick(dt float64) {
	if dt <= 0 {
		return
	}
	dt = math.Min(dt, e.cfg.Tick.MaxFastDtS)
	now := e.now()

	fl := &e.st.Flashlight
	if fl.On {
		wasLow := fl.Low()
		if fl.Drain(dt) {
			e.record(eventlog.Warning, eventlog.SourceFlashlight, "Flashlight depleted. Team descending blind.")
		} else if !wasLow && fl.Low() {
			e.record(eventlog.Warning, eventlog.SourceFlashlight, "Flashlight charge low (%d%%).", int(fl.Charge/fl.Capacity*100))
		}
	} else {
		fl.AutoRecharge(dt, fl.RechargePerSecond)
	}
	e.completeRecharge(now)
	e.moveAll(dt)
	e.cullExpired(now)
	e.rollFastSpawn(now)
}

// accrue adds one fixed tick of passive income.
func (e *Engine) accrue() {
	ec := e.cfg.Economy
	gain := ec.EnergyPerTick
	if e.st.TeamActive {
		gain += e.st.CurrentDepth() * ec.EnergyPerDepth
		for i := range e.st.Personnel {
			p := &e.st.Personnel[i]
			if p.Active && p.Role == personnel.Research && p.Status != personnel.Lost {
				gain *= 1 + ec.ResearchBonus
			}
		}
	}
	gain *= 1 + ec.KnowledgeBonus*e.st.Resources.Knowledge

	e.st.Resources.Energy += gain
	e.st.Resources.Containment += math.Floor(e.st.Resources.Energy * ec.ContainmentYield)
}

// ambientNarrative occasionally logs flavour text. No state changes.
func (e *Engine) ambientNarrative() {
	if !e.st.TeamActive || e.rng.Float64() >= e.cfg.Risk.AmbientLogChance {
		return
	}
	depth := e.st.CurrentDepth()
	e.sink.Record(narrative.Message(narrative.Ambient, e.rng, "", depth), eventlog.Info, eventlog.SourceAmbient)
}

// CatchUp replays the fixed ticks missed since the last one, up to the
// configured cap, with simulated timestamps. Returns how many ran.
func (e *Engine) CatchUp(now time.Time) int {
	interval := e.cfg.Tick.Fixed()
	last := e.st.LastTickAt
	if last.IsZero() || interval <= 0 || !now.After(last) {
		e.st.LastTickAt = now
		return 0
	}

	n := int(now.Sub(last) / interval)
	capped := false
	if limit := e.cfg.Tick.OfflineMaxTicks; limit > 0 && n > limit {
		n = limit
		capped = true
	}
	for i := 1; i <= n; i++ {
		e.fixedTickAt(last.Add(time.Duration(i) * interval))
	}
	if capped {
		e.st.LastTickAt = now
	}
	if n > 0 {
		e.record(eventlog.Info, eventlog.SourceFacility, "Offline for %s: %d ticks simulated.", now.Sub(last).Round(time.Second), n)
	}
	return n
}
