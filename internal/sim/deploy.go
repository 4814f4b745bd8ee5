package sim

import (
	"fmt"
	"math"
	"time"

	"stairwell/internal/eventlog"
	"stairwell/internal/personnel"
)

// Deploy sends the team down with the minimum pool commitment.
func (e *Engine) Deploy() error {
	if e.st.TeamActive {
		return fmt.Errorf("team already deployed: %w", ErrInvalidState)
	}
	need := float64(e.cfg.Pool.MinTeam)
	if e.st.Pool.Count < need {
		short := int(math.Ceil(need - e.st.Pool.Count))
		e.record(eventlog.Warning, eventlog.SourceDeploy,
			"Deployment denied: %d D-Class required, %d short.", e.cfg.Pool.MinTeam, short)
		return ErrInsufficientPool
	}

	available := 0
	for i := range e.st.Personnel {
		if e.st.Personnel[i].Status != personnel.Lost {
			available++
		}
	}
	if available == 0 {
		e.record(eventlog.Warning, eventlog.SourceDeploy, "Deployment denied: no personnel fit for duty.")
		return fmt.Errorf("no personnel available: %w", ErrInvalidState)
	}

	e.st.Pool.Commit(need)
	e.st.TeamActive = true
	for i := range e.st.Personnel {
		p := &e.st.Personnel[i]
		if p.Status == personnel.Lost {
			continue
		}
		p.Active = true
		p.Unblock()
	}
	e.redistribute()

	e.record(eventlog.Critical, eventlog.SourceDeploy, "Team deployed with %d D-Class.", e.cfg.Pool.MinTeam)
	return nil
}

// Recall brings the team and every assigned unit home.
func (e *Engine) Recall() error {
	if !e.st.TeamActive {
		return fmt.Errorf("team not deployed: %w", ErrInvalidState)
	}
	returned := e.standDown(e.now())
	e.record(eventlog.Warning, eventlog.SourceDeploy, "Team recalled. %d D-Class returned.", int(returned))
	return nil
}

// standDown ends the deployment at now: running encounters go back to
// Spawned and every assigned unit returns to the pool.
func (e *Engine) standDown(now time.Time) float64 {
	e.releaseInFlight(now)
	returned := e.st.Pool.ReleaseAll()
	e.st.TeamActive = false
	e.deactivateAll()
	return returned
}
