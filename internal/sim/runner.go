package sim

import (
	"context"
	"log"
	"sync"
	"time"

	"stairwell/internal/config"
)

// Runner hosts an Engine in a multi-goroutine program. One mutex serialises
// ticks and commands.
type Runner struct {
	mu     sync.Mutex
	eng    *Engine
	fixed  time.Duration
	fast   time.Duration
	logger *log.Logger

	// OnFixedTick runs after every fixed tick, outside the lock, with a
	// snapshot of the state it produced.
	OnFixedTick func(State)
}

func NewRunner(eng *Engine, tick config.TickConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		eng:    eng,
		fixed:  tick.Fixed(),
		fast:   tick.Fast(),
		logger: logger,
	}
}

// Run drives both cadences until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	fixed := time.NewTicker(r.fixed)
	defer fixed.Stop()
	fast := time.NewTicker(r.fast)
	defer fast.Stop()

	r.logger.Printf("sim: running (fixed=%s fast=%s)", r.fixed, r.fast)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.logger.Printf("sim: stopped: %v", ctx.Err())
			return nil
		case <-fixed.C:
			r.Tick()
		case now := <-fast.C:
			dt := now.Sub(last).Seconds()
			last = now
			r.mu.Lock()
			r.eng.FastTick(dt)
			r.mu.Unlock()
		}
	}
}

// Tick runs one fixed tick and the hook.
func (r *Runner) Tick() {
	r.mu.Lock()
	r.eng.FixedTick()
	var snap State
	hook := r.OnFixedTick
	if hook != nil {
		snap = r.eng.Snapshot()
	}
	r.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

// Do runs fn with exclusive access to the engine.
func (r *Runner) Do(fn func(*Engine) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.eng)
}

func (r *Runner) Apply(cmd Command) error {
	return r.Do(func(e *Engine) error { return e.Apply(cmd) })
}

func (r *Runner) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.View()
}

func (r *Runner) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.Snapshot()
}
