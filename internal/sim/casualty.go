package sim

import (
	"math"
	"time"

	"stairwell/internal/eventlog"
	"stairwell/internal/narrative"
)

// applyCasualties is the only place Assigned is decremented by loss. The
// request is clamped to what is assigned; each lost unit gets its own
// critical event. Returns the number actually lost.
func (e *Engine) applyCasualties(requested int, depth float64) float64 {
	lost := e.st.Pool.Lose(float64(requested))
	for i := 0; i < int(lost); i++ {
		id := narrative.SubjectID(e.rng)
		at := narrative.Jitter(e.rng, depth, 15)
		e.sink.Record(narrative.Message(narrative.Casualty, e.rng, id, at), eventlog.Critical, eventlog.SourceCasualty)
	}
	return lost
}

func (e *Engine) depthMultiplier(depth float64) float64 {
	r := e.cfg.Risk
	if r.DepthDivisor <= 0 {
		return 1
	}
	return 1 + depth/r.DepthDivisor*r.DepthWeight
}

// riskRate is the ambient per-tick casualty chance at depth. Death-zone bands
// override the formula with a flat rate.
func (e *Engine) riskRate(depth float64) float64 {
	r := e.cfg.Risk
	if r.InDeathZone(depth) {
		return r.DeathZoneRate
	}
	return r.BaseRate * e.st.Pool.MortalityRate * e.depthMultiplier(depth)
}

// casualtyCap bounds one ambient event: at most MaxCasualties and never more
// than MaxAssignedShare of the assigned units (rounded up).
func (e *Engine) casualtyCap() float64 {
	share := math.Ceil(e.st.Pool.Assigned * e.cfg.Risk.MaxAssignedShare)
	return math.Min(float64(e.cfg.Risk.MaxCasualties), share)
}

// ambientRisk is the per-tick exposure roll while the team is out.
func (e *Engine) ambientRisk(now time.Time) {
	if !e.st.TeamActive || e.st.Pool.Assigned <= 0 {
		return
	}
	depth := e.st.CurrentDepth()
	if e.rng.Float64() >= e.riskRate(depth) {
		return
	}
	n := int(math.Ceil(e.rng.Float64() * e.casualtyCap()))
	if n <= 0 {
		return
	}
	e.resolveCasualties(n, depth, now)
}

// resolveCasualties applies n team losses, backfills from the pool and pulls
// the team out if it is left too thin.
func (e *Engine) resolveCasualties(n int, depth float64, now time.Time) {
	teamUnits := e.st.TeamUnits()
	lost := e.applyCasualties(n, depth)
	e.chargeInFlight(lost - teamUnits)
	if lost > 0 {
		if moved := e.st.Pool.Reinforce(lost); moved > 0 {
			e.record(eventlog.Info, eventlog.SourcePool, "%d D-Class moved up to replace losses.", int(moved))
		}
	}
	if e.emergencyRecall(now) {
		return
	}
	e.redistribute()
}

// chargeInFlight takes losses the team could not absorb out of the running
// encounters' commitments, in list order.
func (e *Engine) chargeInFlight(excess float64) {
	for i := range e.st.Encounters {
		if excess <= 0 {
			return
		}
		enc := &e.st.Encounters[i]
		if !enc.InProgress || enc.Committed <= 0 {
			continue
		}
		take := math.Min(excess, enc.Committed)
		enc.Committed -= take
		excess -= take
	}
}

// emergencyRecall fires when the team is down to a handful of units and the
// pool has nothing left to send.
func (e *Engine) emergencyRecall(now time.Time) bool {
	r := e.cfg.Risk
	if !e.st.TeamActive || e.st.Pool.Assigned > r.RecallAssignedMax || e.st.Pool.Count > r.RecallCountMax {
		return false
	}
	returned := e.standDown(now)
	e.record(eventlog.Critical, eventlog.SourceDeploy, "EMERGENCY PROTOCOL: team recalled, %d D-Class returned.", int(returned))
	return true
}
