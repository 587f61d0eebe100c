package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/service"
)

type PointsHandler struct {
	points service.PointsService
}

func NewPointsHandler(points service.PointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

// HandleTotal handles GET /api/v1/volunteers/{id}/points.
func (h *PointsHandler) HandleTotal(w http.ResponseWriter, r *http.Request) {
	volunteerID := mux.Vars(r)["id"]
	total, err := h.points.TotalPoints(r.Context(), volunteerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"volunteer_id": volunteerID,
		"total_points": total,
	})
}

// HandleLeaderboard handles GET /api/v1/leaderboard.
func (h *PointsHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r, "limit", 10)
	entries, err := h.points.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
