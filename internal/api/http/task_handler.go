package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/service"
)

type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	EventID       string     `json:"event_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	MaxVolunteers int32      `json:"max_volunteers"`
}

// HandleCreateTask handles POST /api/v1/tasks.
func (h *TaskHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	task := &domain.Task{
		EventID:       req.EventID,
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		MaxVolunteers: req.MaxVolunteers,
	}
	if err := h.tasks.CreateTask(r.Context(), task); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleGetTask handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type changeTaskStatusRequest struct {
	Status string `json:"status"`
}

// HandleChangeStatus handles PUT /api/v1/tasks/{id}/status.
func (h *TaskHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeTaskStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.tasks.ChangeTaskStatus(r.Context(), mux.Vars(r)["id"], domain.TaskStatus(req.Status)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// HandleListByEvent handles GET /api/v1/events/{id}/tasks.
func (h *TaskHandler) HandleListByEvent(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasksByEvent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}
