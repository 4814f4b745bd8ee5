package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stairwell/internal/sim"
)

// FileRepo keeps one save as JSON on disk. Writes go to a temp file in the
// same directory and are renamed into place.
type FileRepo struct {
	mu    sync.Mutex
	path  string
	clock Clock
}

func NewFileRepo(path string, clock Clock) (*FileRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{path: path, clock: clock}, nil
}

func (r *FileRepo) Path() string { return r.path }

func (r *FileRepo) Load(ctx context.Context) (sim.State, Meta, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sim.State{}, Meta{}, ErrNotFound
		}
		return sim.State{}, Meta{}, err
	}
	s, meta, err := Decode(b)
	if err != nil {
		return sim.State{}, Meta{}, fmt.Errorf("%s: %w", r.path, err)
	}
	return s, meta, nil
}

func (r *FileRepo) Store(ctx context.Context, s sim.State) (Meta, error) {
	_ = ctx
	now := time.Now()
	if r.clock != nil {
		now = r.clock.Now()
	}
	b, meta, err := Encode(s, now)
	if err != nil {
		return Meta{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveLocked(b); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

func (r *FileRepo) saveLocked(b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".save-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
