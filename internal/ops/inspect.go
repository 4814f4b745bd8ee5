package ops

import (
	"fmt"
	"io"
	"os"
	"time"

	"stairwell/internal/save"
	"stairwell/internal/sim"
)

// Summary is a human-oriented digest of one save file.
type Summary struct {
	Meta         save.Meta
	TickCount    int64
	PlayTime     time.Duration
	Energy       float64
	Containment  float64
	Knowledge    float64
	TeamActive   bool
	CurrentDepth float64
	Pool         float64
	Assigned     float64
	Encounters   int
	Personnel    int
}

func Inspect(path string) (Summary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	s, meta, err := save.Decode(b)
	if err != nil {
		return Summary{}, err
	}
	return summarize(s, meta), nil
}

func summarize(s sim.State, meta save.Meta) Summary {
	return Summary{
		Meta:         meta,
		TickCount:    s.TickCount,
		PlayTime:     time.Duration(s.TotalPlayTimeS * float64(time.Second)),
		Energy:       s.Resources.Energy,
		Containment:  s.Resources.Containment,
		Knowledge:    s.Resources.Knowledge,
		TeamActive:   s.TeamActive,
		CurrentDepth: s.CurrentDepth(),
		Pool:         s.Pool.Count,
		Assigned:     s.Pool.Assigned,
		Encounters:   len(s.Encounters),
		Personnel:    len(s.Personnel),
	}
}

func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "save:        %s (v%d, %s)\n", s.Meta.SaveID, s.Meta.Version, s.Meta.SavedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "ticks:       %d (%s played)\n", s.TickCount, s.PlayTime.Round(time.Second))
	fmt.Fprintf(w, "resources:   energy=%.1f containment=%.1f knowledge=%.1f\n", s.Energy, s.Containment, s.Knowledge)
	fmt.Fprintf(w, "team:        active=%t depth=%.1f personnel=%d\n", s.TeamActive, s.CurrentDepth, s.Personnel)
	fmt.Fprintf(w, "d-class:     pool=%.0f assigned=%.0f\n", s.Pool, s.Assigned)
	fmt.Fprintf(w, "encounters:  %d\n", s.Encounters)
}
