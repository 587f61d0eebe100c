package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type notificationListResponse struct {
	Notifications []domain.NotificationRecord `json:"notifications"`
	Total         int32                       `json:"total"`
	Page          int32                       `json:"page"`
	PageSize      int32                       `json:"page_size"`
}

// HandleList handles GET /api/v1/notifications for the session volunteer.
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	list, total, err := h.notifications.GetNotifications(r.Context(), claims.VolunteerID, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []domain.NotificationRecord{}
	}
	writeJSON(w, http.StatusOK, notificationListResponse{
		Notifications: list,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	})
}

// HandleMarkRead handles POST /api/v1/notifications/{id}/read.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	err := h.notifications.MarkAsRead(r.Context(), claims.VolunteerID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}
