// Package save persists simulation snapshots.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stairwell/internal/sim"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("save not found")

// Meta describes one stored snapshot.
type Meta struct {
	SaveID  string    `json:"save_id"`
	SavedAt time.Time `json:"saved_at"`
	Version int       `json:"version"`
}

type Repository interface {
	Load(ctx context.Context) (sim.State, Meta, error)
	Store(ctx context.Context, s sim.State) (Meta, error)
}

// envelope is the on-disk layout: metadata plus the versioned snapshot.
type envelope struct {
	Meta
	State json.RawMessage `json:"state"`
}

type Clock interface {
	Now() time.Time
}

// Encode wraps s in a fresh envelope.
func Encode(s sim.State, now time.Time) ([]byte, Meta, error) {
	raw, err := sim.EncodeSnapshot(s)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("encode snapshot: %w", err)
	}
	meta := Meta{
		SaveID:  uuid.NewString(),
		SavedAt: now,
		Version: sim.SnapshotVersion,
	}
	b, err := json.MarshalIndent(envelope{Meta: meta, State: raw}, "", "  ")
	if err != nil {
		return nil, Meta{}, err
	}
	return b, meta, nil
}

// Decode reads an envelope and migrates the snapshot inside it. A bare
// snapshot without an envelope is accepted too.
func Decode(b []byte) (sim.State, Meta, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return sim.State{}, Meta{}, fmt.Errorf("decode save: %w", err)
	}
	raw := []byte(env.State)
	if len(raw) == 0 {
		raw = b
		env.Meta = Meta{}
	}
	s, err := sim.DecodeSnapshot(raw)
	if err != nil {
		return sim.State{}, Meta{}, err
	}
	env.Version = s.Version
	return s, env.Meta, nil
}
