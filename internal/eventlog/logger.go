package eventlog

import (
	"encoding/json"
	"log"
	"time"
)

// LoggerSink mirrors game events onto a process logger as one JSON object per line.
type LoggerSink struct {
	Logger *log.Logger
	// MinSeverity filters out quieter events; empty keeps everything.
	MinSeverity Severity
}

func (s LoggerSink) Record(message string, severity Severity, source string) {
	if s.Logger == nil || rank(severity) < rank(s.MinSeverity) {
		return
	}
	b, err := json.Marshal(map[string]any{
		"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		"level":  string(severity),
		"msg":    message,
		"source": source,
	})
	if err != nil {
		s.Logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	s.Logger.Print(string(b))
}

func rank(s Severity) int {
	switch s {
	case Warning:
		return 1
	case Critical:
		return 2
	default:
		return 0
	}
}
