package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// conflictResponse carries enough detail for the client to resolve a 409:
// either the winning terminal status, or the session assignment a response
// can be explicitly re-targeted to.
type conflictResponse struct {
	Error               string `json:"error"`
	Code                string `json:"code"`
	ResolvedStatus      string `json:"resolved_status,omitempty"`
	SessionAssignmentID string `json:"session_assignment_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response body", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeServiceError maps service-layer errors onto the HTTP surface.
// Stale-transition errors never reach this point; services resolve races
// internally.
func writeServiceError(w http.ResponseWriter, err error) {
	var resolved *service.AlreadyResolvedError
	var reconcile *service.ReconciliationRequiredError

	switch {
	case errors.As(err, &resolved):
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:          resolved.Error(),
			Code:           "already_resolved",
			ResolvedStatus: string(resolved.Status),
		})
	case errors.As(err, &reconcile):
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:               reconcile.Error(),
			Code:                "reconciliation_required",
			SessionAssignmentID: reconcile.SessionAssignmentID,
		})
	case errors.Is(err, service.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, err.Error(), "capacity_exceeded")
	case errors.Is(err, service.ErrDuplicateAssignment):
		writeError(w, http.StatusConflict, err.Error(), "duplicate_assignment")
	case errors.Is(err, service.ErrInvalidWorkTransition):
		writeError(w, http.StatusConflict, err.Error(), "invalid_work_transition")
	case errors.Is(err, service.ErrNotCompleted):
		writeError(w, http.StatusConflict, err.Error(), "not_completed")
	case errors.Is(err, service.ErrNotDispatchable):
		writeError(w, http.StatusConflict, err.Error(), "not_dispatchable")
	case errors.Is(err, service.ErrIdentityMismatch):
		writeError(w, http.StatusForbidden, err.Error(), "identity_mismatch")
	case errors.Is(err, service.ErrAuthenticationRequired):
		writeError(w, http.StatusUnauthorized, err.Error(), "authentication_required")
	case errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrNoVolunteersSelected),
		errors.Is(err, service.ErrInvalidTaskStatus),
		errors.Is(err, service.ErrTaskTitleRequired):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request")
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrVolunteerNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "not_found")
	default:
		logger.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "internal")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return false
	}
	return true
}
