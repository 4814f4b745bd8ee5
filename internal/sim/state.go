package sim

import (
	"math"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/dclass"
	"stairwell/internal/encounter"
	"stairwell/internal/flashlight"
	"stairwell/internal/personnel"
	"stairwell/internal/upgrade"
)

// SnapshotVersion is the schema written by EncodeSnapshot.
const SnapshotVersion = 2

type Resources struct {
	Energy      float64 `json:"energy"`
	Containment float64 `json:"containment"`
	Knowledge   float64 `json:"knowledge"`
}

// State is the whole simulation aggregate. Team deployment has one source of
// truth, TeamActive; depth and the deployed flag are derived.
type State struct {
	Version          int                   `json:"version"`
	Resources        Resources             `json:"resources"`
	Flashlight       flashlight.State      `json:"flashlight"`
	Personnel        []personnel.Personnel `json:"personnel"`
	Encounters       []encounter.Encounter `json:"encounters"`
	TeamActive       bool                  `json:"team_active"`
	Pool             dclass.Pool           `json:"pool"`
	Upgrades         upgrade.Levels        `json:"upgrades"`
	NextEncounterSeq int                   `json:"next_encounter_seq"`
	LastTickAt       time.Time             `json:"last_tick_at"`
	TickCount        int64                 `json:"tick_count"`
	TotalPlayTimeS   float64               `json:"total_play_time_s"`
}

// NewState is a fresh facility.
func NewState(cfg config.Config, now time.Time) State {
	return State{
		Version: SnapshotVersion,
		Resources: Resources{
			Energy:      cfg.Economy.StartEnergy,
			Containment: cfg.Economy.StartContainment,
		},
		Flashlight:       flashlight.New(cfg.Flashlight),
		Personnel:        personnel.DefaultRoster(),
		Encounters:       []encounter.Encounter{},
		Pool:             dclass.New(cfg.Pool),
		Upgrades:         upgrade.Levels{},
		NextEncounterSeq: 1,
		LastTickAt:       now,
	}
}

// TeamDeployed mirrors TeamActive for callers that still ask the old question.
func (s *State) TeamDeployed() bool {
	return s.TeamActive
}

// CurrentDepth is the mean depth of active, unblocked personnel, falling back
// to the deepest member of the roster when nobody qualifies.
func (s *State) CurrentDepth() float64 {
	sum, n := 0.0, 0
	for i := range s.Personnel {
		p := &s.Personnel[i]
		if p.CanMove() {
			sum += p.Depth
			n++
		}
	}
	if n > 0 {
		return sum / float64(n)
	}
	deepest := 0.0
	for i := range s.Personnel {
		deepest = math.Max(deepest, s.Personnel[i].Depth)
	}
	return deepest
}

// InFlight is the number of pool units committed to running encounters.
func (s *State) InFlight() float64 {
	total := 0.0
	for i := range s.Encounters {
		if s.Encounters[i].InProgress {
			total += s.Encounters[i].Committed
		}
	}
	return total
}

// TeamUnits is the share of Assigned that belongs to the deployed team.
func (s *State) TeamUnits() float64 {
	return math.Max(0, s.Pool.Assigned-s.InFlight())
}

func (s *State) findPersonnel(id string) *personnel.Personnel {
	for i := range s.Personnel {
		if s.Personnel[i].ID == id {
			return &s.Personnel[i]
		}
	}
	return nil
}

func (s *State) findEncounter(id string) (*encounter.Encounter, int) {
	for i := range s.Encounters {
		if s.Encounters[i].ID == id {
			return &s.Encounters[i], i
		}
	}
	return nil, -1
}

// Clone deep-copies the aggregate.
func (s State) Clone() State {
	out := s
	out.Personnel = append([]personnel.Personnel(nil), s.Personnel...)
	out.Encounters = make([]encounter.Encounter, len(s.Encounters))
	for i, e := range s.Encounters {
		if e.ProgressStartedAt != nil {
			t := *e.ProgressStartedAt
			e.ProgressStartedAt = &t
		}
		out.Encounters[i] = e
	}
	if s.Flashlight.RechargeReadyAt != nil {
		t := *s.Flashlight.RechargeReadyAt
		out.Flashlight.RechargeReadyAt = &t
	}
	out.Upgrades = s.Upgrades.Clone()
	return out
}
