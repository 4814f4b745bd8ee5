package serverapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	feedWriteWait  = 5 * time.Second
	feedPingPeriod = 30 * time.Second
	feedBuffer     = 64
	maxBacklog     = 200
)

// handleLogFeed streams new log entries as JSON text frames. The optional
// backlog query replays that many retained entries first.
func (s *server) handleLogFeed(w http.ResponseWriter, r *http.Request) {
	backlog, _ := strconv.Atoi(r.URL.Query().Get("backlog"))
	backlog = max(0, min(backlog, maxBacklog))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("log feed: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	feed, cancel := s.events.Subscribe(feedBuffer)
	defer cancel()

	if backlog > 0 {
		entries := s.events.Entries()
		if backlog < len(entries) {
			entries = entries[len(entries)-backlog:]
		}
		for _, e := range entries {
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		}
	}

	// The reader only watches for the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case e, ok := <-feed:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(feedWriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
