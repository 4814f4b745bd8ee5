package save

import (
	"context"
	"sync"
	"time"

	"stairwell/internal/sim"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	clock Clock
	data  []byte
}

func NewMemoryRepo(clock Clock) *MemoryRepo {
	return &MemoryRepo{clock: clock}
}

func (r *MemoryRepo) Load(ctx context.Context) (sim.State, Meta, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return sim.State{}, Meta{}, ErrNotFound
	}
	return Decode(r.data)
}

func (r *MemoryRepo) Store(ctx context.Context, s sim.State) (Meta, error) {
	_ = ctx
	b, meta, err := Encode(s, r.now())
	if err != nil {
		return Meta{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = b
	return meta, nil
}

func (r *MemoryRepo) now() time.Time {
	if r.clock == nil {
		return time.Now()
	}
	return r.clock.Now()
}
