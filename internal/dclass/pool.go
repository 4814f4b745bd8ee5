// Package dclass holds the consumable personnel-pool inventory that fuels
// exploration. Every method keeps Count and Assigned non-negative.
package dclass

import (
	"math"

	"stairwell/internal/config"
)

type Pool struct {
	Count            float64 `json:"count"`
	Capacity         float64 `json:"capacity"`
	GenerationPerMin float64 `json:"generation_per_min"`
	Assigned         float64 `json:"assigned"`
	MortalityRate    float64 `json:"mortality_rate"`
	TotalCasualties  float64 `json:"total_casualties"`
	TotalRecruited   float64 `json:"total_recruited"`
}

func New(cfg config.PoolConfig) Pool {
	return Pool{
		Count:            cfg.StartCount,
		Capacity:         cfg.Capacity,
		GenerationPerMin: cfg.GenerationPerMin,
		MortalityRate:    cfg.MortalityRate,
	}
}

// Commit moves n units from Count to Assigned. Returns false without
// mutation when fewer than n are available.
func (p *Pool) Commit(n float64) bool {
	if n < 0 || p.Count < n {
		return false
	}
	p.Count -= n
	p.Assigned += n
	return true
}

// Release moves up to n assigned units back to Count and returns how many moved.
func (p *Pool) Release(n float64) float64 {
	n = math.Max(0, math.Min(n, p.Assigned))
	p.Assigned -= n
	p.Count += n
	return n
}

// ReleaseAll returns every assigned unit.
func (p *Pool) ReleaseAll() float64 {
	return p.Release(p.Assigned)
}

// Lose removes up to n assigned units permanently. The result is the number
// actually lost, never more than Assigned.
func (p *Pool) Lose(n float64) float64 {
	n = math.Max(0, math.Min(math.Floor(n), p.Assigned))
	p.Assigned -= n
	p.TotalCasualties += n
	return n
}

// Reinforce moves up to n available units into Assigned and returns how many moved.
func (p *Pool) Reinforce(n float64) float64 {
	n = math.Max(0, math.Min(n, p.Count))
	p.Count -= n
	p.Assigned += n
	return n
}

// Regenerate adds passive growth for seconds, capped at Capacity.
func (p *Pool) Regenerate(seconds float64) {
	if seconds <= 0 || p.Count >= p.Capacity {
		return
	}
	p.Count = math.Min(p.Capacity, p.Count+p.GenerationPerMin*seconds/60)
}

// Recruit adds n units bought outright.
func (p *Pool) Recruit(n float64) {
	p.Count += n
	p.TotalRecruited += n
}

// HasRoom reports whether n more units fit under Capacity.
func (p *Pool) HasRoom(n float64) bool {
	return p.Count+n <= p.Capacity
}

// Normalize clamps negative counters and reports whether it changed anything.
func (p *Pool) Normalize() bool {
	changed := false
	for _, v := range []*float64{&p.Count, &p.Assigned, &p.TotalCasualties, &p.TotalRecruited} {
		if *v < 0 || math.IsNaN(*v) {
			*v = 0
			changed = true
		}
	}
	return changed
}

// RecruitCost is the containment price of n recruits at the current count.
// Batches at or above the bulk threshold are discounted.
func RecruitCost(cfg config.PoolConfig, count float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	single := math.Floor(cfg.RecruitBaseCost + count*cfg.RecruitPerUnitCost)
	total := single * float64(n)
	if cfg.BulkThreshold > 0 && n >= cfg.BulkThreshold {
		total = math.Floor(total * (1 - cfg.BulkDiscount))
	}
	return total
}
