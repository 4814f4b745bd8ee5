package sim

import (
	"fmt"
	"math"
	"time"

	"stairwell/internal/encounter"
	"stairwell/internal/eventlog"
	"stairwell/internal/narrative"
	"stairwell/internal/personnel"
)

// spawn appends a new encounter and returns it.
func (e *Engine) spawn(kind encounter.Kind, depth float64, now time.Time) *encounter.Encounter {
	id := fmt.Sprintf("enc_%d", e.st.NextEncounterSeq)
	e.st.NextEncounterSeq++
	e.st.Encounters = append(e.st.Encounters, encounter.New(id, kind, depth, now, e.cfg.Encounters))
	enc := &e.st.Encounters[len(e.st.Encounters)-1]

	if kind == encounter.Hostile {
		e.record(eventlog.Warning, eventlog.SourceEncounter, "Hostile contact below at %dm. %d D-Class needed to engage.", int(depth), enc.RequiredUnits)
	} else {
		e.record(eventlog.Info, eventlog.SourceEncounter, "Anomalous reading at %dm.", int(depth))
	}
	return enc
}

// spawnChance scales the base roll by depth and by proximity to the next
// milestone depth.
func (e *Engine) spawnChance(depth float64) float64 {
	ec := e.cfg.Encounters
	chance := ec.SpawnChance * e.depthMultiplier(depth)
	if ec.MilestoneEvery > 0 {
		next := (math.Floor(depth/ec.MilestoneEvery) + 1) * ec.MilestoneEvery
		if next-depth <= ec.MilestoneWindow {
			chance *= ec.MilestoneBoost
		}
	}
	return math.Min(1, chance)
}

func (e *Engine) hostileShare(depth float64) float64 {
	ec := e.cfg.Encounters
	span := ec.MilestoneEvery * 3
	if span <= 0 {
		return ec.HostileShareBase
	}
	return ec.HostileShareBase + (ec.HostileShareMax-ec.HostileShareBase)*math.Min(1, depth/span)
}

func (e *Engine) atCapacity() bool {
	return len(e.st.Encounters) >= e.cfg.Encounters.MaxConcurrent
}

// rollSpawn is the fixed-tick spawn roll. It only runs while the team is out.
func (e *Engine) rollSpawn(now time.Time) {
	if !e.st.TeamActive || e.atCapacity() {
		return
	}
	depth := e.st.CurrentDepth()
	if e.rng.Float64() >= e.spawnChance(depth) {
		return
	}
	kind := encounter.Anomaly
	if e.rng.Float64() < e.hostileShare(depth) {
		kind = encounter.Hostile
	}
	ec := e.cfg.Encounters
	e.spawn(kind, depth+ec.SpawnAheadMin+e.rng.Float64()*ec.SpawnAheadJitter, now)
}

// rollFastSpawn is the low-probability per-frame spawn near the team while the
// light is on.
func (e *Engine) rollFastSpawn(now time.Time) {
	if !e.st.TeamActive || !e.st.Flashlight.Lit() || e.atCapacity() {
		return
	}
	ec := e.cfg.Encounters
	if e.rng.Float64() >= ec.FastSpawnChance {
		return
	}
	kind := encounter.Anomaly
	if e.rng.Float64() < ec.HostileShareBase {
		kind = encounter.Hostile
	}
	depth := e.st.CurrentDepth()
	target := narrative.Jitter(e.rng, depth+ec.FastSpawnStep, ec.FastSpawnStep*1.5)
	e.spawn(kind, math.Max(depth, target), now)
}

// removeEncounter drops the encounter at idx and frees anyone it was blocking.
func (e *Engine) removeEncounter(idx int) {
	id := e.st.Encounters[idx].ID
	e.st.Encounters = append(e.st.Encounters[:idx], e.st.Encounters[idx+1:]...)
	e.releaseBlocked(id)
}

// cullExpired removes every unstarted encounter whose expiry has been reached.
// No reward, no casualty.
func (e *Engine) cullExpired(now time.Time) int {
	removed := 0
	for i := 0; i < len(e.st.Encounters); {
		enc := e.st.Encounters[i]
		if !enc.Expired(now) {
			i++
			continue
		}
		e.removeEncounter(i)
		removed++

		kind := narrative.AnomalyExpired
		if enc.Kind == encounter.Hostile {
			kind = narrative.HostileExpired
		}
		e.sink.Record(narrative.Message(kind, e.rng, enc.ID, enc.Depth), eventlog.Info, eventlog.SourceEncounter)
	}
	return removed
}

// StartInteraction commits pool units to an encounter and starts its clock.
func (e *Engine) StartInteraction(id string) error {
	enc, _ := e.st.findEncounter(id)
	if enc == nil {
		return fmt.Errorf("encounter %q: %w", id, ErrUnknownReference)
	}
	if enc.InProgress {
		return fmt.Errorf("encounter %q already in progress: %w", id, ErrInvalidState)
	}
	need := float64(enc.RequiredUnits)
	if !e.st.Pool.Commit(need) {
		e.record(eventlog.Warning, eventlog.SourceEncounter,
			"Cannot engage at %dm: %d D-Class required, %d available.",
			int(enc.Depth), enc.RequiredUnits, int(e.st.Pool.Count))
		return ErrInsufficientPool
	}
	enc.Start(e.now())
	e.record(eventlog.Info, eventlog.SourceEncounter, "Engaging %s at %dm with %d D-Class.", enc.Kind, int(enc.Depth), enc.RequiredUnits)
	return nil
}

// Abort cancels an in-progress encounter and returns its committed units.
// Unknown, unstarted or already resolved ids are a no-op.
func (e *Engine) Abort(id string) bool {
	enc, idx := e.st.findEncounter(id)
	if enc == nil || !enc.InProgress {
		return false
	}
	returned := e.st.Pool.Release(enc.Committed)
	depth := enc.Depth
	e.removeEncounter(idx)
	e.record(eventlog.Info, eventlog.SourceEncounter, "Interaction at %dm aborted. %d D-Class returned.", int(depth), int(returned))
	return true
}

// updateProgress advances every running encounter: escalation flavour,
// mid-flight losses and completion.
func (e *Engine) updateProgress(now time.Time) {
	ec := e.cfg.Encounters
	for i := 0; i < len(e.st.Encounters); {
		enc := &e.st.Encounters[i]
		if !enc.InProgress {
			i++
			continue
		}
		if enc.Done(now) {
			e.complete(i)
			continue
		}

		progress := enc.Progress(now)
		if enc.Kind == encounter.Hostile && progress >= 0.3 && progress <= 0.9 && e.rng.Float64() < ec.EscalationChance {
			e.sink.Record(narrative.Message(narrative.Escalation, e.rng, enc.ID, enc.Depth), eventlog.Warning, eventlog.SourceEncounter)
		}
		if progress > 0.5 && enc.Committed > 0 && e.rng.Float64() < enc.CasualtyProbability*ec.MidFlightCasualtyScale {
			enc.Committed -= e.applyCasualties(1, enc.Depth)
		}
		i++
	}
}

// complete resolves the encounter at idx: final casualty roll, reward,
// survivors back to the pool.
func (e *Engine) complete(idx int) {
	enc := e.st.Encounters[idx]

	finalLoss := false
	if enc.Committed > 0 && e.rng.Float64() < enc.CasualtyProbability {
		lost := e.applyCasualties(1, enc.Depth)
		enc.Committed -= lost
		finalLoss = lost > 0
	}

	reward := encounter.CompletionReward(&enc, e.cfg.Economy.CompletionDepthDiv)
	e.st.Resources.Energy += reward
	returned := e.st.Pool.Release(enc.Committed)

	if finalLoss {
		e.woundBlocked(enc.ID)
	}
	e.st.Encounters = append(e.st.Encounters[:idx], e.st.Encounters[idx+1:]...)
	e.releaseBlocked(enc.ID)
	e.redistribute()

	e.sink.Record(narrative.Message(narrative.EncounterComplete, e.rng, enc.ID, enc.Depth), eventlog.Info, eventlog.SourceEncounter)
	e.record(eventlog.Info, eventlog.SourceEncounter, "+%d energy. %d D-Class returned.", int(reward), int(returned))
}

// woundBlocked rolls survival for everyone held by encounter id.
func (e *Engine) woundBlocked(id string) {
	for i := range e.st.Personnel {
		p := &e.st.Personnel[i]
		if p.BlockedBy != id {
			continue
		}
		if e.rng.Float64() < p.SurvivalRate {
			continue
		}
		switch p.Wound() {
		case personnel.Injured:
			e.record(eventlog.Warning, eventlog.SourcePersonnel, "%s injured at %dm.", p.Name, int(p.Depth))
		case personnel.Lost:
			e.record(eventlog.Critical, eventlog.SourcePersonnel, "%s lost at %dm. Replacement required.", p.Name, int(p.Depth))
		}
	}
}

// releaseInFlight returns every running encounter to Spawned. The caller is
// responsible for the units it was holding.
func (e *Engine) releaseInFlight(now time.Time) {
	for i := range e.st.Encounters {
		enc := &e.st.Encounters[i]
		if enc.InProgress {
			enc.Release(now, encounter.Timeout(encounter.KindConfig(e.cfg.Encounters, enc.Kind)))
		}
	}
}
