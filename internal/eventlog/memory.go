package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock is satisfied by game.Clock; declared here to keep the package leaf-level.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MemoryLog keeps the most recent entries and fans new ones out to subscribers.
type MemoryLog struct {
	mu        sync.RWMutex
	clock     Clock
	retention int
	entries   []Entry
	subs      map[int]chan Entry
	nextSub   int
	total     int
}

func NewMemoryLog(retention int, clock Clock) *MemoryLog {
	if retention <= 0 {
		retention = 200
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &MemoryLog{
		clock:     clock,
		retention: retention,
		entries:   make([]Entry, 0, retention),
		subs:      map[int]chan Entry{},
	}
}

func (l *MemoryLog) Record(message string, severity Severity, source string) {
	e := Entry{
		ID:       uuid.NewString(),
		At:       l.clock.Now(),
		Message:  message,
		Severity: severity,
		Source:   source,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.retention; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
	l.total++

	for _, ch := range l.subs {
		select {
		case ch <- e:
		default:
			// slow reader; the live feed is best effort
		}
	}
}

// Entries returns a copy of the retained entries, oldest first.
func (l *MemoryLog) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Since returns retained entries recorded at or after t.
func (l *MemoryLog) Since(t time.Time) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0)
	for _, e := range l.entries {
		if e.At.Before(t) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count counts retained entries; an empty severity or source matches anything.
func (l *MemoryLog) Count(severity Severity, source string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, e := range l.entries {
		if severity != "" && e.Severity != severity {
			continue
		}
		if source != "" && e.Source != source {
			continue
		}
		n++
	}
	return n
}

// Total is the number of entries ever recorded, including evicted ones.
func (l *MemoryLog) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

func (l *MemoryLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Subscribe returns a buffered feed of new entries and a cancel func that
// closes it.
func (l *MemoryLog) Subscribe(buffer int) (<-chan Entry, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Entry, buffer)

	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
