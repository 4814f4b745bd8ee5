package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Advance(1500*time.Millisecond))

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestNewRand_SameSeedSameRolls(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestScriptedRand_RepeatsLastValue(t *testing.T) {
	r := NewScriptedRand(0.1, 0.9)
	assert.Equal(t, 0.1, r.Float64())
	assert.Equal(t, 0.9, r.Float64())
	assert.Equal(t, 0.9, r.Float64())
	assert.Equal(t, 8, r.Intn(10))
}
