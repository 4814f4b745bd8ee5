// Package narrative turns event kinds into flavour text. It never touches
// simulation state: callers pass the random source and the values to splice in.
package narrative

import (
	"fmt"
	"strings"
)

type Kind string

const (
	Casualty          Kind = "casualty"
	Ambient           Kind = "ambient"
	HostileExpired    Kind = "hostile_expired"
	AnomalyExpired    Kind = "anomaly_expired"
	Escalation        Kind = "escalation"
	EncounterComplete Kind = "encounter_complete"
	Blocked           Kind = "blocked"
	Cleared           Kind = "cleared"
)

// Rand is the subset of game.Rand the generator needs.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

var templates = map[Kind][]string{
	Casualty: {
		"D-{id} stopped responding at {depth}m. Tether went slack.",
		"Audio feed from D-{id} cut out near {depth}m. Presumed lost.",
		"D-{id} stepped past the light at {depth}m and did not come back.",
		"Vitals for D-{id} flatlined around {depth}m.",
		"D-{id} reported footsteps behind them at {depth}m. Signal lost.",
	},
	Ambient: {
		"Faint crying echoes from somewhere below {depth}m.",
		"Temperature drops two degrees near {depth}m.",
		"The stairwell seems longer than it was a moment ago.",
		"A flicker at the edge of the beam around {depth}m. Nothing there.",
		"Radio static resolves briefly into a voice, then fades.",
	},
	HostileExpired: {
		"The face below {depth}m withdraws into the dark.",
		"Hostile presence at {depth}m is no longer detected.",
	},
	AnomalyExpired: {
		"Anomalous reading at {depth}m faded before collection.",
		"Signal at {depth}m dissipated.",
	},
	Escalation: {
		"Investigation at {depth}m: the entity is moving closer.",
		"Team at {depth}m reports rising hostility. Hold position.",
		"Breathing audible on all channels at {depth}m.",
	},
	EncounterComplete: {
		"Encounter at {depth}m resolved.",
		"Readings at {depth}m secured.",
	},
	Blocked: {
		"{id} halted at {depth}m: path obstructed.",
		"{id} cannot proceed past {depth}m.",
	},
	Cleared: {
		"{id}: obstruction cleared, resuming descent from {depth}m.",
	},
}

// Templates exposes the pool for a kind (copy), mainly for tests and tooling.
func Templates(kind Kind) []string {
	return append([]string(nil), templates[kind]...)
}

// Pick chooses a template for kind.
func Pick(kind Kind, rng Rand) string {
	pool := templates[kind]
	if len(pool) == 0 {
		return string(kind)
	}
	if rng == nil || len(pool) == 1 {
		return pool[0]
	}
	return pool[rng.Intn(len(pool))]
}

// Fill substitutes {id} and {depth} into tmpl.
func Fill(tmpl, id string, depth float64) string {
	return strings.NewReplacer(
		"{id}", id,
		"{depth}", fmt.Sprintf("%d", int(depth)),
	).Replace(tmpl)
}

// Message is Pick followed by Fill.
func Message(kind Kind, rng Rand, id string, depth float64) string {
	return Fill(Pick(kind, rng), id, depth)
}

// SubjectID generates a four-digit test-subject designation.
func SubjectID(rng Rand) string {
	if rng == nil {
		return "0000"
	}
	return fmt.Sprintf("%04d", 1000+rng.Intn(9000))
}

// Jitter returns a depth within ±spread of depth, never negative.
func Jitter(rng Rand, depth, spread float64) float64 {
	if rng == nil || spread <= 0 {
		return depth
	}
	d := depth + (rng.Float64()*2-1)*spread
	if d < 0 {
		return 0
	}
	return d
}
