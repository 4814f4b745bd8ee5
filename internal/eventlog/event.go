package eventlog

import "time"

type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

// Source tags group events by the subsystem that raised them.
const (
	SourceDeploy     = "deploy"
	SourceCasualty   = "casualty"
	SourceEncounter  = "encounter"
	SourcePersonnel  = "personnel"
	SourceFlashlight = "flashlight"
	SourceRepair     = "repair"
	SourceAmbient    = "ambient"
	SourcePool       = "pool"
	SourceFacility   = "facility"
)

type Entry struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Source   string    `json:"source,omitempty"`
}

// Sink is the log/event collaborator. The simulation never formats or
// retains what it records; that is the sink's job.
type Sink interface {
	Record(message string, severity Severity, source string)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(message string, severity Severity, source string)

func (f SinkFunc) Record(message string, severity Severity, source string) {
	f(message, severity, source)
}

// Discard drops everything.
var Discard Sink = SinkFunc(func(string, Severity, string) {})

type tee []Sink

func (t tee) Record(message string, severity Severity, source string) {
	for _, s := range t {
		s.Record(message, severity, source)
	}
}

// Tee fans a record out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
