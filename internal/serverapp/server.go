// Package serverapp exposes a running simulation over HTTP.
package serverapp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"stairwell/internal/eventlog"
	"stairwell/internal/httpmw"
	"stairwell/internal/save"
	"stairwell/internal/sim"

	"github.com/gorilla/websocket"
)

type Options struct {
	Runner *sim.Runner
	Log    *eventlog.MemoryLog
	// Repo is optional; without it POST /api/save answers 501.
	Repo   save.Repository
	Logger *log.Logger
}

type server struct {
	runner   *sim.Runner
	events   *eventlog.MemoryLog
	repo     save.Repository
	logger   *log.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Runner == nil {
		return nil, errors.New("runner is required")
	}
	if opts.Log == nil {
		return nil, errors.New("event log is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &server{
		runner: opts.Runner,
		events: opts.Log,
		repo:   opts.Repo,
		logger: opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		started: time.Now().UTC(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/cmd", s.handleCommand)
	mux.HandleFunc("GET /api/log", s.handleLog)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /ws/log", s.handleLogFeed)
	mux.HandleFunc("GET /{$}", s.handleStatusPage)

	return httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger, "/healthz"),
	), nil
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"service":  "stairwell",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"uptime_s": int64(time.Since(s.started).Seconds()),
	})
}
