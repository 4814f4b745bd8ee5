package sim

import (
	"fmt"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/eventlog"
	"stairwell/internal/flashlight"
	"stairwell/internal/game"
	"stairwell/internal/upgrade"
)

// Engine owns the simulation state. It is single-writer: callers serialise
// access themselves (see Runner).
type Engine struct {
	cfg   config.Config
	clock game.Clock
	rng   game.Rand
	sink  eventlog.Sink
	st    State
}

type Options struct {
	Config *config.Config
	Clock  game.Clock
	Rand   game.Rand
	Sink   eventlog.Sink
}

func NewEngine(opts Options) *Engine {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	clock := opts.Clock
	if clock == nil {
		clock = game.RealClock{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = game.NewRand(cfg.Tick.Seed)
	}
	sink := opts.Sink
	if sink == nil {
		sink = eventlog.Discard
	}

	e := &Engine{
		cfg:   cfg,
		clock: clock,
		rng:   rng,
		sink:  sink,
		st:    NewState(cfg, clock.Now()),
	}
	e.applyUpgradeEffects()
	return e
}

func (e *Engine) Config() config.Config { return e.cfg }

// SetRand swaps the random source, used to reseed after a restore.
func (e *Engine) SetRand(r game.Rand) { e.rng = r }

// SetSink replaces the event collaborator.
func (e *Engine) SetSink(s eventlog.Sink) {
	if s == nil {
		s = eventlog.Discard
	}
	e.sink = s
}

func (e *Engine) now() time.Time { return e.clock.Now() }

func (e *Engine) record(severity eventlog.Severity, source, format string, args ...any) {
	e.sink.Record(fmt.Sprintf(format, args...), severity, source)
}

func (e *Engine) mods() upgrade.Modifiers {
	return upgrade.Resolve(e.st.Upgrades)
}

// applyUpgradeEffects recomputes every upgrade-derived parameter from the
// owned levels and the base tuning.
func (e *Engine) applyUpgradeEffects() {
	m := e.mods()
	e.st.Flashlight.ApplyUpgrades(e.cfg.Flashlight, m.BatteryLevel, m.SynergyLevel)
	e.st.Flashlight.RechargePerSecond = flashlight.AutoRechargeRate(e.cfg.Flashlight, m.AutoRechargeLevel)
	e.st.Pool.Capacity = e.cfg.Pool.Capacity + m.ExtraCapacity
	e.st.Pool.GenerationPerMin = e.cfg.Pool.GenerationPerMin + m.ExtraGeneration
	e.st.Pool.MortalityRate = e.cfg.Pool.MortalityRate * m.MortalityFactor
}
