package encounter

import (
	"math"
	"time"

	"stairwell/internal/config"
)

type Kind string

const (
	Anomaly Kind = "anomaly"
	Hostile Kind = "hostile"
)

// Phase is the lifecycle position of an encounter still in the active set.
// Terminal outcomes remove the encounter instead of recording a phase.
type Phase string

const (
	Spawned    Phase = "spawned"
	InProgress Phase = "in_progress"
)

type Encounter struct {
	ID                  string     `json:"id"`
	Kind                Kind       `json:"kind"`
	Depth               float64    `json:"depth"`
	Reward              float64    `json:"reward"`
	CreatedAt           time.Time  `json:"created_at"`
	ExpiresAt           time.Time  `json:"expires_at"`
	Blocking            bool       `json:"blocking"`
	InProgress          bool       `json:"in_progress"`
	ProgressStartedAt   *time.Time `json:"progress_started_at,omitempty"`
	DurationMs          float64    `json:"duration_ms,omitempty"`
	CasualtyProbability float64    `json:"casualty_probability"`
	RequiredUnits       int        `json:"required_units"`

	// Committed is the number of pool units currently tied up in the
	// interaction. It starts at RequiredUnits and shrinks with losses.
	Committed float64 `json:"committed,omitempty"`
}

func (e *Encounter) Phase() Phase {
	if e.InProgress {
		return InProgress
	}
	return Spawned
}

// Expired reports whether an unstarted encounter has timed out. An encounter
// expiring exactly at now counts as expired.
func (e *Encounter) Expired(now time.Time) bool {
	return !e.InProgress && !e.ExpiresAt.After(now)
}

// Progress is elapsed/duration in [0,1] for an in-progress encounter.
func (e *Encounter) Progress(now time.Time) float64 {
	if !e.InProgress || e.ProgressStartedAt == nil || e.DurationMs <= 0 {
		return 0
	}
	elapsed := float64(now.Sub(*e.ProgressStartedAt)) / float64(time.Millisecond)
	return math.Max(0, math.Min(1, elapsed/e.DurationMs))
}

// Done reports whether the interaction has run its full duration.
func (e *Encounter) Done(now time.Time) bool {
	if !e.InProgress || e.ProgressStartedAt == nil {
		return false
	}
	elapsed := float64(now.Sub(*e.ProgressStartedAt)) / float64(time.Millisecond)
	return elapsed >= e.DurationMs
}

// Start commits units and begins the interaction clock.
func (e *Encounter) Start(now time.Time) {
	started := now
	e.InProgress = true
	e.ProgressStartedAt = &started
	e.Committed = float64(e.RequiredUnits)
}

// Release puts an in-progress encounter back to Spawned, returning how many
// committed units it was holding. The expiry timer restarts from now.
func (e *Encounter) Release(now time.Time, timeout time.Duration) float64 {
	held := e.Committed
	e.InProgress = false
	e.ProgressStartedAt = nil
	e.Committed = 0
	e.ExpiresAt = now.Add(timeout)
	return held
}

// Valid reports whether the in-progress fields are consistent.
func (e *Encounter) Valid() bool {
	if !e.InProgress {
		return true
	}
	return e.ProgressStartedAt != nil && e.DurationMs > 0
}

func KindConfig(cfg config.EncounterConfig, kind Kind) config.KindConfig {
	if kind == Hostile {
		return cfg.Hostile
	}
	return cfg.Anomaly
}

func tier(depth float64) float64 {
	return math.Floor(depth / 100)
}

// Reward is the base payout at depth.
func Reward(k config.KindConfig, depth float64) float64 {
	return k.RewardBase + tier(depth)*k.RewardPer100
}

// DurationMs is how long an interaction at depth takes.
func DurationMs(k config.KindConfig, depth float64) float64 {
	return k.DurationMs + tier(depth)*k.DurationPer100Ms
}

// CasualtyProbability is the per-encounter loss chance at depth.
func CasualtyProbability(k config.KindConfig, depth float64) float64 {
	if k.CasualtyDepthDiv <= 0 {
		return math.Min(k.CasualtyMax, k.CasualtyBase)
	}
	return math.Max(0, math.Min(k.CasualtyMax, k.CasualtyBase+depth/k.CasualtyDepthDiv))
}

// RequiredUnits is the pool commitment needed to start an interaction.
func RequiredUnits(k config.KindConfig, depth float64) int {
	n := k.RequiredOffset
	if k.RequiredDepthDiv > 0 {
		n += int(math.Floor(depth / k.RequiredDepthDiv))
	}
	if n < k.RequiredMin {
		n = k.RequiredMin
	}
	if n < 1 {
		n = 1
	}
	return n
}

func Timeout(k config.KindConfig) time.Duration {
	return time.Duration(k.TimeoutMs) * time.Millisecond
}

// New builds a blocking encounter of kind at depth.
func New(id string, kind Kind, depth float64, now time.Time, cfg config.EncounterConfig) Encounter {
	k := KindConfig(cfg, kind)
	return Encounter{
		ID:                  id,
		Kind:                kind,
		Depth:               depth,
		Reward:              Reward(k, depth),
		CreatedAt:           now,
		ExpiresAt:           now.Add(Timeout(k)),
		Blocking:            true,
		DurationMs:          DurationMs(k, depth),
		CasualtyProbability: CasualtyProbability(k, depth),
		RequiredUnits:       RequiredUnits(k, depth),
	}
}

// CompletionReward scales the base reward by how deep the encounter was.
func CompletionReward(e *Encounter, depthDiv float64) float64 {
	if depthDiv <= 0 {
		return e.Reward
	}
	return e.Reward * (1 + e.Depth/depthDiv)
}
