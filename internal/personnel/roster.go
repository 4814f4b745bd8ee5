package personnel

import "fmt"

// Defaults are the role baselines restored on replacement.
type Defaults struct {
	SpeedFactor  float64
	SurvivalRate float64
}

var roleDefaults = map[Role]Defaults{
	Scout:    {SpeedFactor: 1.2, SurvivalRate: 0.9},
	Research: {SpeedFactor: 0.8, SurvivalRate: 0.7},
	Handler:  {SpeedFactor: 1.0, SurvivalRate: 0.95},
}

func RoleDefaults(r Role) Defaults {
	if d, ok := roleDefaults[r]; ok {
		return d
	}
	return Defaults{SpeedFactor: 1, SurvivalRate: 0.8}
}

var namePools = map[Role][]string{
	Scout:    {"Operative Δ-7", "Operative K-2", "Operative Σ-4", "Operative V-9", "Operative Λ-1"},
	Research: {"Tech A. Morse", "Dr. L. Okafor", "Tech J. Varga", "Dr. S. Iwata", "Tech M. Reyes"},
	Handler:  {"Handler R-3", "Handler T-8", "Handler B-5", "Handler Q-1", "Handler N-6"},
}

// Names returns a copy of the replacement name pool for r.
func Names(r Role) []string {
	return append([]string(nil), namePools[r]...)
}

type rng interface {
	Intn(n int) int
}

// RollName picks a name for r, avoiding current when the pool allows it.
func RollName(r Role, current string, src rng) string {
	pool := namePools[r]
	if len(pool) == 0 {
		return fmt.Sprintf("%s %04d", r, src.Intn(10000))
	}
	name := pool[src.Intn(len(pool))]
	if name == current && len(pool) > 1 {
		for _, n := range pool {
			if n != current {
				return n
			}
		}
	}
	return name
}

// DefaultRoster is the three-person team every facility starts with.
func DefaultRoster() []Personnel {
	return []Personnel{
		newMember("p1", "Operative Δ-7", Scout, "L", 0),
		newMember("p2", "Tech A. Morse", Research, "R", 68),
		newMember("p3", "Handler R-3", Handler, "L", 136),
	}
}

func newMember(id, name string, role Role, lane string, depth float64) Personnel {
	d := RoleDefaults(role)
	return Personnel{
		ID:           id,
		Name:         name,
		Role:         role,
		Lane:         lane,
		Depth:        depth,
		Level:        1,
		SpeedFactor:  d.SpeedFactor,
		SurvivalRate: d.SurvivalRate,
		Status:       Active,
	}
}

// Reset re-rolls p in place as a fresh recruit of the same role. Depth and
// lane are kept so the replacement picks up where the old one stood.
func Reset(p *Personnel, src rng) {
	d := RoleDefaults(p.Role)
	p.Name = RollName(p.Role, p.Name, src)
	p.Level = 1
	p.Experience = 0
	p.SpeedFactor = d.SpeedFactor
	p.SurvivalRate = d.SurvivalRate
	p.Status = Active
	p.BlockedBy = ""
}
