package http

import (
	"errors"
	"fmt"
	"net/http"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/security"
	"volunteerhub-backend/internal/service"
)

// ResponseHandler serves both trust domains for accept/reject: the
// unauthenticated email link and the authenticated in-app endpoint.
type ResponseHandler struct {
	responses service.ResponseService
}

func NewResponseHandler(responses service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// HandleEmailLink handles GET /volunteer/task-response. The link is opened
// in a browser, so the reply is a small HTML page rather than JSON. When
// the browser happens to carry a valid session, the session identity takes
// precedence over the link's embedded volunteer id.
func (h *ResponseHandler) HandleEmailLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := domain.ResponseAction(q.Get("action"))
	assignmentID := q.Get("id")
	volunteerID := q.Get("volunteerId")
	rawToken := q.Get("token")

	if !action.Valid() || assignmentID == "" || volunteerID == "" || rawToken == "" {
		writeHTML(w, http.StatusBadRequest, "Invalid link", "This response link is missing required information.")
		return
	}
	token, err := security.DecodeResponseToken(rawToken)
	if err != nil || token.AssignmentID != assignmentID || token.VolunteerID != volunteerID {
		writeHTML(w, http.StatusBadRequest, "Invalid link", "This response link is invalid or has been altered.")
		return
	}

	acting := volunteerID
	authenticated := false
	if claims, ok := claimsFromContext(r.Context()); ok {
		acting = claims.VolunteerID
		authenticated = true
	}

	a, err := h.responses.Respond(r.Context(), assignmentID, acting, action, authenticated)
	if err != nil {
		h.writeLinkError(w, err)
		return
	}

	verb := "accepted"
	if a.NotificationStatus == domain.NotificationStatusReject {
		verb = "declined"
	}
	writeHTML(w, http.StatusOK, "Response recorded",
		fmt.Sprintf("Thank you! You have %s the task assignment.", verb))
}

func (h *ResponseHandler) writeLinkError(w http.ResponseWriter, err error) {
	var resolved *service.AlreadyResolvedError
	var reconcile *service.ReconciliationRequiredError
	switch {
	case errors.As(err, &resolved):
		writeHTML(w, http.StatusConflict, "Already answered",
			fmt.Sprintf("This assignment was already resolved as %q and cannot be changed.", resolved.Status))
	case errors.As(err, &reconcile):
		writeHTML(w, http.StatusConflict, "Different volunteer",
			"This link was issued to a different volunteer, but you have your own assignment for this task. Please respond to it from the app.")
	case errors.Is(err, service.ErrIdentityMismatch):
		writeHTML(w, http.StatusForbidden, "Not your assignment",
			"This link was issued to a different volunteer.")
	case errors.Is(err, service.ErrAuthenticationRequired):
		writeHTML(w, http.StatusUnauthorized, "Sign in required",
			"This link was issued to a different volunteer. Please sign in and respond from the app.")
	case errors.Is(err, service.ErrAssignmentNotFound):
		writeHTML(w, http.StatusNotFound, "Not found", "This task assignment no longer exists.")
	default:
		writeHTML(w, http.StatusInternalServerError, "Something went wrong",
			"We could not record your response. Please try again later.")
	}
}

type respondRequest struct {
	AssignmentID string `json:"assignment_id"`
	Action       string `json:"action"`
}

// HandleRespond handles POST /api/v1/assignments/respond for authenticated
// sessions. A reconciliation_required conflict tells the client to re-post
// with the session_assignment_id it was handed.
func (h *ResponseHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	var req respondRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AssignmentID == "" {
		writeError(w, http.StatusBadRequest, "assignment_id is required", "invalid_request")
		return
	}

	a, err := h.responses.Respond(r.Context(), req.AssignmentID, claims.VolunteerID, domain.ResponseAction(req.Action), true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func writeHTML(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="font-family:sans-serif;max-width:480px;margin:80px auto;text-align:center;">
<h2>%s</h2>
<p>%s</p>
</body>
</html>`, title, title, message)
}
