package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/service"
)

type AssignmentHandler struct {
	assignments service.AssignmentService
	dispatch    service.DispatchService
	points      service.PointsService
}

func NewAssignmentHandler(assignments service.AssignmentService, dispatch service.DispatchService, points service.PointsService) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		dispatch:    dispatch,
		points:      points,
	}
}

type createAssignmentsRequest struct {
	VolunteerIDs []string `json:"volunteer_ids"`
}

type createAssignmentsResponse struct {
	Assignments []domain.TaskAssignment `json:"assignments"`
	Dispatched  []dispatchStatus        `json:"dispatched"`
}

type dispatchStatus struct {
	AssignmentID string `json:"assignment_id"`
	Sent         bool   `json:"sent"`
	Error        string `json:"error,omitempty"`
}

// HandleCreateAssignments handles POST /api/v1/tasks/{id}/assignments.
// Creation is atomic; dispatch results are reported per assignment, and a
// failed dispatch leaves its assignment pending for a later retry.
func (h *AssignmentHandler) HandleCreateAssignments(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	var req createAssignmentsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.assignments.CreateAssignments(r.Context(), taskID, req.VolunteerIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ids := make([]string, len(created))
	for i, a := range created {
		ids[i] = a.ID
	}
	results := h.dispatch.DispatchBatch(r.Context(), ids)

	resp := createAssignmentsResponse{Assignments: created}
	for _, res := range results {
		ds := dispatchStatus{AssignmentID: res.AssignmentID, Sent: res.Err == nil}
		if res.Err != nil {
			ds.Error = res.Err.Error()
		}
		resp.Dispatched = append(resp.Dispatched, ds)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetAssignment handles GET /api/v1/assignments/{id}.
func (h *AssignmentHandler) HandleGetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.assignments.GetAssignment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleListByTask handles GET /api/v1/tasks/{id}/assignments.
func (h *AssignmentHandler) HandleListByTask(w http.ResponseWriter, r *http.Request) {
	list, err := h.assignments.ListByTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleListMine handles GET /api/v1/assignments for the session volunteer.
func (h *AssignmentHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	list, err := h.assignments.ListByVolunteer(r.Context(), claims.VolunteerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type advanceWorkRequest struct {
	Status string `json:"status"`
}

// HandleAdvanceWork handles PUT /api/v1/assignments/{id}/work.
func (h *AssignmentHandler) HandleAdvanceWork(w http.ResponseWriter, r *http.Request) {
	var req advanceWorkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.assignments.AdvanceWork(r.Context(), mux.Vars(r)["id"], domain.WorkStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type completeResponse struct {
	Assignment *domain.TaskAssignment `json:"assignment"`
	Points     *domain.PointsEntry    `json:"points,omitempty"`
}

// HandleComplete handles POST /api/v1/assignments/{id}/complete: moves the
// work axis to completed and grants completion points. A repeat call is
// idempotent; the grant fires at most once.
func (h *AssignmentHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := h.assignments.AdvanceWork(r.Context(), id, domain.WorkStatusCompleted)
	if errors.Is(err, service.ErrInvalidWorkTransition) {
		// Repeat completion is idempotent; anything else is a real conflict.
		current, gerr := h.assignments.GetAssignment(r.Context(), id)
		if gerr != nil || current.WorkStatus != domain.WorkStatusCompleted {
			writeServiceError(w, err)
			return
		}
		a = current
	} else if err != nil {
		writeServiceError(w, err)
		return
	}

	entry, err := h.points.GrantCompletion(r.Context(), id)
	if err != nil && !errors.Is(err, service.ErrPointsAlreadyGranted) {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completeResponse{Assignment: a, Points: entry})
}
