package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/security"
	"volunteerhub-backend/internal/service"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Task         service.TaskService
	Assignment   service.AssignmentService
	Dispatch     service.DispatchService
	Response     service.ResponseService
	Points       service.PointsService
	Projector    service.ProjectorService
	Notification service.NotificationService
}

// NewRouter wires all routes. The email response link lives outside
// /api/v1 because it is opened straight from an email client with no
// session; everything else under /api/v1 speaks JSON.
func NewRouter(svcs Services, tokens security.TokenManager, bus *events.Bus) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging)
	r.Use(authenticate(tokens))

	taskHandler := NewTaskHandler(svcs.Task)
	assignmentHandler := NewAssignmentHandler(svcs.Assignment, svcs.Dispatch, svcs.Points)
	responseHandler := NewResponseHandler(svcs.Response)
	dashboardHandler := NewDashboardHandler(svcs.Projector, bus)
	notificationHandler := NewNotificationHandler(svcs.Notification)
	pointsHandler := NewPointsHandler(svcs.Points)

	// Email link path (unauthenticated trust domain).
	r.HandleFunc("/volunteer/task-response", responseHandler.HandleEmailLink).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Tasks
	api.HandleFunc("/tasks", requireAuth(taskHandler.HandleCreateTask)).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", taskHandler.HandleGetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/status", requireAuth(taskHandler.HandleChangeStatus)).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}/tasks", taskHandler.HandleListByEvent).Methods(http.MethodGet)

	// Assignments
	api.HandleFunc("/tasks/{id}/assignments", requireAuth(assignmentHandler.HandleCreateAssignments)).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/assignments", assignmentHandler.HandleListByTask).Methods(http.MethodGet)
	api.HandleFunc("/assignments", requireAuth(assignmentHandler.HandleListMine)).Methods(http.MethodGet)
	api.HandleFunc("/assignments/respond", requireAuth(responseHandler.HandleRespond)).Methods(http.MethodPost)
	api.HandleFunc("/assignments/{id}", assignmentHandler.HandleGetAssignment).Methods(http.MethodGet)
	api.HandleFunc("/assignments/{id}/work", requireAuth(assignmentHandler.HandleAdvanceWork)).Methods(http.MethodPut)
	api.HandleFunc("/assignments/{id}/complete", requireAuth(assignmentHandler.HandleComplete)).Methods(http.MethodPost)

	// Dashboard
	api.HandleFunc("/dashboard/status-counts", dashboardHandler.HandleStatusCounts).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/feed", dashboardHandler.HandleFeed).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/roster", dashboardHandler.HandleRoster).Methods(http.MethodGet)

	// Notifications
	api.HandleFunc("/notifications", requireAuth(notificationHandler.HandleList)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", requireAuth(notificationHandler.HandleMarkRead)).Methods(http.MethodPost)

	// Points
	api.HandleFunc("/volunteers/{id}/points", pointsHandler.HandleTotal).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", pointsHandler.HandleLeaderboard).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
