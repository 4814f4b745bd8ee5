package game

import "math/rand"

// Rand is the random source every roll in the simulation goes through.
// *rand.Rand satisfies it; tests substitute scripted sources.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. The same seed replays the same rolls.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ScriptedRand replays a fixed sequence of Float64 values, then repeats the
// last one. Intn derives from the same sequence.
type ScriptedRand struct {
	vals []float64
	i    int
}

func NewScriptedRand(vals ...float64) *ScriptedRand {
	if len(vals) == 0 {
		vals = []float64{0.5}
	}
	return &ScriptedRand{vals: vals}
}

func (r *ScriptedRand) Float64() float64 {
	v := r.vals[r.i]
	if r.i < len(r.vals)-1 {
		r.i++
	}
	return v
}

func (r *ScriptedRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
