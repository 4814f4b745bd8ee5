package sim

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stairwell/internal/dclass"
	"stairwell/internal/encounter"
	"stairwell/internal/eventlog"
	"stairwell/internal/flashlight"
	"stairwell/internal/personnel"
	"stairwell/internal/upgrade"
)

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() State {
	return e.st.Clone()
}

// Restore replaces the engine state with s. A snapshot without a roster gets
// the default roster back instead of failing the load.
func (e *Engine) Restore(s State) {
	st := s.Clone()
	st.Version = SnapshotVersion
	if len(st.Personnel) == 0 {
		st.Personnel = personnel.DefaultRoster()
		e.record(eventlog.Info, eventlog.SourceRepair, "Personnel roster missing from save; default roster restored.")
	}
	if st.Encounters == nil {
		st.Encounters = []encounter.Encounter{}
	}
	for i := range st.Encounters {
		e.backfill(&st.Encounters[i])
	}
	if seq := nextSeqFrom(st.Encounters); st.NextEncounterSeq < seq {
		st.NextEncounterSeq = seq
	}
	e.st = st
	e.applyUpgradeEffects()
}

// backfill derives the formula fields a migrated encounter did not carry.
func (e *Engine) backfill(enc *encounter.Encounter) {
	if enc.RequiredUnits > 0 {
		return
	}
	k := encounter.KindConfig(e.cfg.Encounters, enc.Kind)
	enc.RequiredUnits = encounter.RequiredUnits(k, enc.Depth)
	enc.CasualtyProbability = encounter.CasualtyProbability(k, enc.Depth)
	if enc.DurationMs <= 0 {
		enc.DurationMs = encounter.DurationMs(k, enc.Depth)
	}
	if enc.Reward <= 0 {
		enc.Reward = encounter.Reward(k, enc.Depth)
	}
	if enc.CreatedAt.IsZero() {
		enc.CreatedAt = enc.ExpiresAt.Add(-encounter.Timeout(k))
	}
}

// EncodeSnapshot renders a state as versioned JSON.
func EncodeSnapshot(s State) ([]byte, error) {
	s.Version = SnapshotVersion
	return json.Marshal(s)
}

// DecodeSnapshot parses any supported snapshot version and migrates it to
// the current schema.
func DecodeSnapshot(b []byte) (State, error) {
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return State{}, fmt.Errorf("decode snapshot header: %w", err)
	}

	switch head.Version {
	case 0, 1:
		var v1 stateV1
		if err := json.Unmarshal(b, &v1); err != nil {
			return State{}, fmt.Errorf("decode v1 snapshot: %w", err)
		}
		return migrateV1(v1), nil
	case SnapshotVersion:
		var s State
		if err := json.Unmarshal(b, &s); err != nil {
			return State{}, fmt.Errorf("decode snapshot: %w", err)
		}
		return s, nil
	}
	return State{}, fmt.Errorf("unsupported snapshot version %d", head.Version)
}

// stateV1 is the legacy layout: mirrored team flags, a stored depth and
// position-based encounters.
type stateV1 struct {
	Resources    Resources             `json:"resources"`
	Flashlight   flashlight.State      `json:"flashlight"`
	Personnel    []personnel.Personnel `json:"personnel"`
	Encounters   []encounterV1         `json:"encounters"`
	TeamActive   bool                  `json:"team_active"`
	TeamDeployed bool                  `json:"team_deployed"`
	CurrentDepth float64               `json:"current_depth"`
	Pool         dclass.Pool           `json:"pool"`
	Upgrades     upgrade.Levels        `json:"upgrades"`
	LastTickAt   time.Time             `json:"last_tick_at"`
}

type encounterV1 struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Position  float64   `json:"position"`
	ExpiresAt time.Time `json:"expires_at"`
	Reward    float64   `json:"reward"`
}

// migrateV1 folds the duplicated fields into the single-source layout. The
// team counts as out only when either flag says so and units are assigned.
// Legacy encounters were never in progress.
func migrateV1(v stateV1) State {
	s := State{
		Version:    SnapshotVersion,
		Resources:  v.Resources,
		Flashlight: v.Flashlight,
		Personnel:  v.Personnel,
		TeamActive: (v.TeamActive || v.TeamDeployed) && v.Pool.Assigned > 0,
		Pool:       v.Pool,
		Upgrades:   v.Upgrades,
		LastTickAt: v.LastTickAt,
	}
	if s.Upgrades == nil {
		s.Upgrades = upgrade.Levels{}
	}
	if len(s.Personnel) > 0 && v.CurrentDepth > 0 && s.CurrentDepth() == 0 {
		for i := range s.Personnel {
			s.Personnel[i].Depth = v.CurrentDepth
		}
	}

	s.Encounters = make([]encounter.Encounter, 0, len(v.Encounters))
	for _, old := range v.Encounters {
		e := encounter.Encounter{
			ID:        old.ID,
			Kind:      encounter.Anomaly,
			Depth:     old.Position,
			ExpiresAt: old.ExpiresAt,
			Reward:    old.Reward,
			Blocking:  true,
		}
		if old.Type == "hostile" || old.Type == "087-1" {
			e.Kind = encounter.Hostile
		}
		s.Encounters = append(s.Encounters, e)
	}
	s.NextEncounterSeq = nextSeqFrom(s.Encounters)
	return s
}

// nextSeqFrom returns a sequence number past every enc_N id in use.
func nextSeqFrom(encs []encounter.Encounter) int {
	next := 1
	for _, e := range encs {
		n, err := strconv.Atoi(strings.TrimPrefix(e.ID, "enc_"))
		if err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}
