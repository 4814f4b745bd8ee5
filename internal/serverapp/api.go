package serverapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/eventlog"
	"stairwell/internal/sim"
)

const maxCommandBytes = 4 << 10

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type statsBody struct {
	Log         eventlog.Stats `json:"log"`
	TickCount   int64          `json:"tick_count"`
	PlayTimeS   float64        `json:"play_time_s"`
	Casualties  float64        `json:"total_casualties"`
	Recruited   float64        `json:"total_recruited"`
	Encounters  int            `json:"encounters"`
	TeamActive  bool           `json:"team_active"`
	Depth       float64        `json:"current_depth"`
	InDeathZone bool           `json:"in_death_zone"`
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.View())
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd sim.Command
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "bad_request"})
		return
	}
	if cmd.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "type is required", Code: "bad_request"})
		return
	}

	if err := s.runner.Apply(cmd); err != nil {
		status, code := classify(err)
		writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
		return
	}
	writeJSON(w, http.StatusOK, s.runner.View())
}

// classify maps a rejected command onto an HTTP status and a stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, sim.ErrUnknownReference):
		return http.StatusNotFound, "unknown_reference"
	case errors.Is(err, sim.ErrInsufficientFunds):
		return http.StatusConflict, "insufficient_funds"
	case errors.Is(err, sim.ErrInsufficientPool):
		return http.StatusConflict, "insufficient_pool"
	case errors.Is(err, sim.ErrCapacityReached):
		return http.StatusConflict, "capacity_reached"
	case errors.Is(err, sim.ErrLocked):
		return http.StatusConflict, "locked"
	case errors.Is(err, sim.ErrMaxLevel):
		return http.StatusConflict, "max_level"
	case errors.Is(err, sim.ErrRechargePending):
		return http.StatusConflict, "recharge_pending"
	case errors.Is(err, sim.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	}
	return http.StatusInternalServerError, "internal"
}

// handleLog returns retained entries, optionally filtered by since
// (RFC 3339) and trimmed to the newest limit.
func (s *server) handleLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries := s.events.Entries()
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "since must be RFC 3339", Code: "bad_request"})
			return
		}
		entries = s.events.Since(since)
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer", Code: "bad_request"})
			return
		}
		if n < len(entries) {
			entries = entries[len(entries)-n:]
		}
	}
	if entries == nil {
		entries = []eventlog.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	v := s.runner.View()
	writeJSON(w, http.StatusOK, statsBody{
		Log:         eventlog.CalculateStats(s.events.Entries()),
		TickCount:   v.TickCount,
		PlayTimeS:   v.TotalPlayTimeS,
		Casualties:  v.Pool.TotalCasualties,
		Recruited:   v.Pool.TotalRecruited,
		Encounters:  len(v.Encounters),
		TeamActive:  v.TeamActive,
		Depth:       v.CurrentDepth,
		InDeathZone: v.InDeathZone,
	})
}

func (s *server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	_ = s.runner.Do(func(e *sim.Engine) error {
		cfg = e.Config()
		return nil
	})
	writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "no save repository configured", Code: "unavailable"})
		return
	}
	meta, err := s.repo.Store(r.Context(), s.runner.Snapshot())
	if err != nil {
		s.logger.Printf("save failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "save failed", Code: "internal"})
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
