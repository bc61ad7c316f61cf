package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/verifield/verifield/types"
)

// streamBuffer bounds the states queued for a slow client; older states are
// dropped since only the latest one matters.
const streamBuffer = 8

// handleStatusStream sends the current status and every change as
// server-sent events until the client goes away.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	updates := make(chan types.StatusView, streamBuffer)
	cancel := s.backend.Subscribe(func(state types.ConnectionState) {
		view := types.ViewOf(state)
		for {
			select {
			case updates <- view:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, s.backend.Status()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case view := <-updates:
			if err := writeEvent(w, rc, view); err != nil {
				s.log.Debug("status stream closed", map[string]any{"err": err})
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, view types.StatusView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: status\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
