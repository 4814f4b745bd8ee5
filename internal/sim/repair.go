package sim

import (
	"strings"
	"time"

	"stairwell/internal/encounter"
	"stairwell/internal/eventlog"
	"stairwell/internal/personnel"
)

// ValidateAndRepair restores the deployment and bookkeeping invariants. Any
// correction is reported as a single info event; the list of fixes is
// returned for callers and tests.
func (e *Engine) ValidateAndRepair() []string {
	return e.repair(e.now())
}

func (e *Engine) repair(now time.Time) []string {
	var fixes []string
	st := &e.st

	if st.Pool.Normalize() {
		fixes = append(fixes, "negative pool counters clamped")
	}
	if st.Resources.Energy < 0 || st.Resources.Containment < 0 || st.Resources.Knowledge < 0 {
		st.Resources.Energy = max(0, st.Resources.Energy)
		st.Resources.Containment = max(0, st.Resources.Containment)
		st.Resources.Knowledge = max(0, st.Resources.Knowledge)
		fixes = append(fixes, "negative resources clamped")
	}
	if st.Flashlight.Normalize() {
		fixes = append(fixes, "flashlight charge normalised")
	}

	for i := range st.Encounters {
		enc := &st.Encounters[i]
		if enc.Valid() {
			continue
		}
		if enc.ProgressStartedAt == nil {
			started := now
			enc.ProgressStartedAt = &started
		}
		if enc.DurationMs <= 0 {
			enc.DurationMs = encounter.DurationMs(encounter.KindConfig(e.cfg.Encounters, enc.Kind), enc.Depth)
		}
		fixes = append(fixes, "encounter "+enc.ID+" progress timing restored")
	}

	for i := range st.Personnel {
		p := &st.Personnel[i]
		if !p.IsBlocked() {
			continue
		}
		if enc, _ := st.findEncounter(p.BlockedBy); enc == nil {
			p.Unblock()
			fixes = append(fixes, p.ID+" released from missing encounter")
		}
	}

	if st.TeamActive && st.TeamUnits() <= 1e-9 {
		st.TeamActive = false
		e.deactivateAll()
		fixes = append(fixes, "team stood down with no units outside engagements")
	}
	if st.TeamActive && !anyFit(st.Personnel) {
		st.TeamActive = false
		e.deactivateAll()
		fixes = append(fixes, "team stood down with no personnel fit for duty")
	}
	if !st.TeamActive {
		if anyActive(st.Personnel) {
			e.deactivateAll()
			fixes = append(fixes, "personnel active while team idle")
		}
		if stray := st.Pool.Assigned - st.InFlight(); stray > 1e-9 {
			st.Pool.Release(stray)
			fixes = append(fixes, "stray assigned units returned")
		}
	}
	if st.TeamActive && e.perHeadMismatch() {
		if !anyActive(st.Personnel) {
			for i := range st.Personnel {
				if st.Personnel[i].Status != personnel.Lost {
					st.Personnel[i].Active = true
				}
			}
		}
		e.redistribute()
		fixes = append(fixes, "team assignment redistributed")
	}

	if len(fixes) > 0 {
		e.record(eventlog.Info, eventlog.SourceRepair, "State repaired: %s.", strings.Join(fixes, "; "))
	}
	return fixes
}

func anyFit(ps []personnel.Personnel) bool {
	for i := range ps {
		if ps[i].Status != personnel.Lost {
			return true
		}
	}
	return false
}

func anyActive(ps []personnel.Personnel) bool {
	for i := range ps {
		if ps[i].Active {
			return true
		}
	}
	return false
}
