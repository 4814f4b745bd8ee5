package sim

import (
	"math"

	"stairwell/internal/encounter"
	"stairwell/internal/eventlog"
	"stairwell/internal/narrative"
	"stairwell/internal/personnel"
)

// moveAll advances every active, unblocked member by dt seconds. Members
// within the blocking window of an unstarted encounter stop and wait.
func (e *Engine) moveAll(dt float64) {
	if dt <= 0 {
		return
	}
	lit := e.st.Flashlight.Lit()
	pc := e.cfg.Personnel

	for i := range e.st.Personnel {
		p := &e.st.Personnel[i]
		if !p.Active || p.Status == personnel.Lost {
			continue
		}
		if p.IsBlocked() {
			if enc, _ := e.st.findEncounter(p.BlockedBy); enc != nil {
				continue
			}
			e.unblock(p)
		}
		if enc := e.blockerNear(p.Depth); enc != nil {
			p.Block(enc.ID)
			e.sink.Record(narrative.Message(narrative.Blocked, e.rng, p.Name, p.Depth), eventlog.Info, eventlog.SourcePersonnel)
			continue
		}
		p.Advance(personnel.Speed(p, pc, lit)*dt, pc.ExperienceRate)
	}
}

// blockerNear finds a blocking, unstarted encounter within the window of depth.
func (e *Engine) blockerNear(depth float64) *encounter.Encounter {
	window := e.cfg.Personnel.BlockWindow
	for i := range e.st.Encounters {
		enc := &e.st.Encounters[i]
		if !enc.Blocking || enc.InProgress {
			continue
		}
		if math.Abs(enc.Depth-depth) <= window {
			return enc
		}
	}
	return nil
}

func (e *Engine) unblock(p *personnel.Personnel) {
	p.Unblock()
	e.sink.Record(narrative.Message(narrative.Cleared, e.rng, p.Name, p.Depth), eventlog.Info, eventlog.SourcePersonnel)
}

// releaseBlocked frees every member held by encounter id.
func (e *Engine) releaseBlocked(id string) {
	for i := range e.st.Personnel {
		p := &e.st.Personnel[i]
		if p.BlockedBy == id {
			e.unblock(p)
		}
	}
}

func (e *Engine) deactivateAll() {
	for i := range e.st.Personnel {
		e.st.Personnel[i].Deactivate()
	}
}

// redistribute splits the team's units evenly over its active members.
func (e *Engine) redistribute() {
	var active []*personnel.Personnel
	for i := range e.st.Personnel {
		p := &e.st.Personnel[i]
		if p.Active && p.Status != personnel.Lost {
			active = append(active, p)
		} else {
			p.AssignedUnits = 0
		}
	}
	if len(active) == 0 {
		return
	}
	share := e.st.TeamUnits() / float64(len(active))
	for _, p := range active {
		p.AssignedUnits = share
	}
}

func (e *Engine) perHeadMismatch() bool {
	sum, n := 0.0, 0
	for i := range e.st.Personnel {
		p := &e.st.Personnel[i]
		if p.Active {
			sum += p.AssignedUnits
			n++
		}
	}
	return n == 0 || math.Abs(sum-e.st.TeamUnits()) > 1e-6
}
