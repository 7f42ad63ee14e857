package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gym-dashboard/internal/gate"

	"go.uber.org/zap"
)

type authEvent struct {
	State string `json:"state"`
}

// events handles GET /events: a Server-Sent Events stream of the browser's
// session gate. Each settled state is sent as an "auth" event; the stream ends
// after "unauthenticated" so the page can redirect to /login, and when the
// server drains.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, "streaming unsupported", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	g := gate.New(h.svc.Client(tokenFromRequest(r)), h.log)
	defer g.Close()
	states := g.Watch()
	g.Start(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.draining:
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			if err := writeEvent(w, "auth", authEvent{State: state.String()}); err != nil {
				h.log.Debug("event stream closed", zap.Error(err))
				return
			}
			flusher.Flush()
			if state == gate.StateUnauthenticated {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
