package eventlog

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func TestMemoryLog_RetentionKeepsNewest(t *testing.T) {
	l := NewMemoryLog(3, nil)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		l.Record(m, Info, SourceAmbient)
	}

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Message)
	assert.Equal(t, "e", entries[2].Message)
	assert.Equal(t, 5, l.Total())
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestMemoryLog_CountAndSince(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewMemoryLog(10, clock)

	l.Record("lost one", Critical, SourceCasualty)
	clock.t = clock.t.Add(time.Minute)
	l.Record("team deployed", Critical, SourceDeploy)
	l.Record("fizzle", Warning, SourceFlashlight)

	assert.Equal(t, 2, l.Count(Critical, ""))
	assert.Equal(t, 1, l.Count("", SourceCasualty))
	assert.Equal(t, 3, l.Count("", ""))
	assert.Len(t, l.Since(clock.t), 2)
}

func TestMemoryLog_SubscribeReceivesAndCancelCloses(t *testing.T) {
	l := NewMemoryLog(10, nil)
	ch, cancel := l.Subscribe(4)

	l.Record("hello", Info, SourceAmbient)
	e := <-ch
	assert.Equal(t, "hello", e.Message)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	// recording after cancel must not panic on a closed channel
	l.Record("after", Info, SourceAmbient)
}

func TestTeeAndLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	mem := NewMemoryLog(5, nil)
	sink := Tee(mem, nil, LoggerSink{Logger: log.New(&buf, "", 0), MinSeverity: Warning})

	sink.Record("quiet", Info, SourceAmbient)
	sink.Record("loud", Critical, SourceCasualty)

	assert.Equal(t, 2, mem.Count("", ""))
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"level":"critical"`)
	assert.Contains(t, buf.String(), `"msg":"loud"`)
}

func TestCalculateStats(t *testing.T) {
	entries := []Entry{
		{Message: "D-1234 lost", Severity: Critical, Source: SourceCasualty},
		{Message: "D-5678 lost", Severity: Critical, Source: SourceCasualty},
		{Message: "EMERGENCY PROTOCOL: team recalled", Severity: Critical, Source: SourceDeploy},
		{Message: "repaired", Severity: Info, Source: SourceRepair},
	}
	stats := CalculateStats(entries)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Casualties)
	assert.Equal(t, 1, stats.Emergencies)
	assert.Equal(t, 1, stats.Repairs)
	assert.Equal(t, 3, stats.BySeverity[Critical])
}
