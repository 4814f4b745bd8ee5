package eventlog

import "strings"

type Stats struct {
	Total       int              `json:"total"`
	BySeverity  map[Severity]int `json:"by_severity"`
	BySource    map[string]int   `json:"by_source"`
	Casualties  int              `json:"casualties"`
	Emergencies int              `json:"emergencies"`
	Repairs     int              `json:"repairs"`
}

// CalculateStats summarises a slice of entries.
func CalculateStats(entries []Entry) Stats {
	stats := Stats{
		BySeverity: make(map[Severity]int),
		BySource:   make(map[string]int),
	}

	for _, e := range entries {
		stats.Total++
		stats.BySeverity[e.Severity]++
		if e.Source != "" {
			stats.BySource[e.Source]++
		}

		switch e.Source {
		case SourceCasualty:
			if e.Severity == Critical {
				stats.Casualties++
			}
		case SourceDeploy:
			if strings.Contains(e.Message, "EMERGENCY PROTOCOL") {
				stats.Emergencies++
			}
		case SourceRepair:
			stats.Repairs++
		}
	}

	return stats
}
