package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/service"
)

type DashboardHandler struct {
	projector service.ProjectorService
	bus       *events.Bus
}

func NewDashboardHandler(projector service.ProjectorService, bus *events.Bus) *DashboardHandler {
	return &DashboardHandler{projector: projector, bus: bus}
}

// HandleStatusCounts handles GET /api/v1/dashboard/status-counts. All five
// buckets are always present so the dashboard never renders a moving set.
func (h *DashboardHandler) HandleStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.projector.CountsByStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// HandleRoster handles GET /api/v1/tasks/{id}/roster.
func (h *DashboardHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.projector.RosterForTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleFeed handles GET /api/v1/dashboard/feed as a server-sent event
// stream of assignment lifecycle changes. Clients that cannot hold a
// stream poll the counts endpoint instead; the stream is best-effort and
// a slow consumer misses events rather than stalling publishers.
func (h *DashboardHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "internal")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.bus.Subscribe(64)
	defer cancel()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Error("Failed to marshal feed event", "event", ev.EventType(), "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.EventType(), payload)
			flusher.Flush()
		}
	}
}
