package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpapi "volunteerhub-backend/internal/api/http"
	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/security"
	"volunteerhub-backend/internal/service"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

type routerFixture struct {
	tasks         *MockTaskService
	assignments   *MockAssignmentService
	dispatch      *MockDispatchService
	responses     *MockResponseService
	points        *MockPointsService
	projector     *MockProjectorService
	notifications *MockNotificationService
	tokens        security.TokenManager
	router        http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		tasks:         new(MockTaskService),
		assignments:   new(MockAssignmentService),
		dispatch:      new(MockDispatchService),
		responses:     new(MockResponseService),
		points:        new(MockPointsService),
		projector:     new(MockProjectorService),
		notifications: new(MockNotificationService),
		tokens:        security.NewTokenManager(testJWTSecret, 60),
	}
	f.router = httpapi.NewRouter(httpapi.Services{
		Task:         f.tasks,
		Assignment:   f.assignments,
		Dispatch:     f.dispatch,
		Response:     f.responses,
		Points:       f.points,
		Projector:    f.projector,
		Notification: f.notifications,
	}, f.tokens, events.NewBus())
	return f
}

func (f *routerFixture) bearer(t *testing.T, volunteerID string) string {
	t.Helper()
	token, err := f.tokens.GenerateAccessToken(volunteerID, volunteerID+"@test.com")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return "Bearer " + token
}

func emailLinkURL(action, assignmentID, volunteerID string) string {
	token := security.EncodeResponseToken(assignmentID, volunteerID, time.Now())
	return fmt.Sprintf("/volunteer/task-response?action=%s&id=%s&volunteerId=%s&token=%s",
		action, assignmentID, volunteerID, token)
}

func TestResponseHandler_EmailLink(t *testing.T) {
	accepted := &domain.TaskAssignment{
		ID:                 "a-1",
		TaskID:             "t-1",
		VolunteerID:        "v-1",
		NotificationStatus: domain.NotificationStatusAccept,
	}

	t.Run("Accept Without Session", func(t *testing.T) {
		f := newRouterFixture()
		f.responses.On("Respond", mock.Anything, "a-1", "v-1", domain.ResponseActionAccept, false).
			Return(accepted, nil)

		req := httptest.NewRequest(http.MethodGet, emailLinkURL("accept", "a-1", "v-1"), nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "accepted")
	})

	t.Run("Session Identity Overrides Link Identity", func(t *testing.T) {
		f := newRouterFixture()
		f.responses.On("Respond", mock.Anything, "a-1", "v-session", domain.ResponseActionAccept, true).
			Return(accepted, nil)

		req := httptest.NewRequest(http.MethodGet, emailLinkURL("accept", "a-1", "v-1"), nil)
		req.Header.Set("Authorization", f.bearer(t, "v-session"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		f.responses.AssertExpectations(t)
	})

	t.Run("Tampered Token", func(t *testing.T) {
		f := newRouterFixture()

		// Token is bound to v-1; the query claims v-2.
		token := security.EncodeResponseToken("a-1", "v-1", time.Now())
		url := fmt.Sprintf("/volunteer/task-response?action=accept&id=a-1&volunteerId=v-2&token=%s", token)
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.responses.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Already Resolved Renders Conflict", func(t *testing.T) {
		f := newRouterFixture()
		f.responses.On("Respond", mock.Anything, "a-1", "v-1", domain.ResponseActionReject, false).
			Return(nil, &service.AlreadyResolvedError{Status: domain.NotificationStatusAccept})

		req := httptest.NewRequest(http.MethodGet, emailLinkURL("reject", "a-1", "v-1"), nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "accept")
	})

	t.Run("Invalid Action", func(t *testing.T) {
		f := newRouterFixture()
		req := httptest.NewRequest(http.MethodGet, emailLinkURL("maybe", "a-1", "v-1"), nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResponseHandler_Respond(t *testing.T) {
	body := func(assignmentID, action string) *bytes.Buffer {
		b, _ := json.Marshal(map[string]string{"assignment_id": assignmentID, "action": action})
		return bytes.NewBuffer(b)
	}

	t.Run("Requires Session", func(t *testing.T) {
		f := newRouterFixture()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/respond", body("a-1", "accept"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		f := newRouterFixture()
		f.responses.On("Respond", mock.Anything, "a-1", "v-1", domain.ResponseActionAccept, true).
			Return(&domain.TaskAssignment{ID: "a-1", NotificationStatus: domain.NotificationStatusAccept}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/respond", body("a-1", "accept"))
		req.Header.Set("Authorization", f.bearer(t, "v-1"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got domain.TaskAssignment
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.NotificationStatusAccept, got.NotificationStatus)
	})

	t.Run("Reconciliation Conflict Carries Own Assignment", func(t *testing.T) {
		f := newRouterFixture()
		f.responses.On("Respond", mock.Anything, "a-1", "v-2", domain.ResponseActionAccept, true).
			Return(nil, &service.ReconciliationRequiredError{LinkVolunteerID: "v-1", SessionAssignmentID: "a-own"})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/respond", body("a-1", "accept"))
		req.Header.Set("Authorization", f.bearer(t, "v-2"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "reconciliation_required", resp["code"])
		assert.Equal(t, "a-own", resp["session_assignment_id"])
	})

	t.Run("Identity Mismatch Is Forbidden", func(t *testing.T) {
		f := newRouterFixture()
		f.responses.On("Respond", mock.Anything, "a-1", "v-2", domain.ResponseActionAccept, true).
			Return(nil, service.ErrIdentityMismatch)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/respond", body("a-1", "accept"))
		req.Header.Set("Authorization", f.bearer(t, "v-2"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestDashboardHandler_StatusCounts(t *testing.T) {
	f := newRouterFixture()
	f.projector.On("CountsByStatus", mock.Anything).Return(map[domain.NotificationStatus]int32{
		domain.NotificationStatusPending: 1,
		domain.NotificationStatusSent:    2,
		domain.NotificationStatusAccept:  3,
		domain.NotificationStatusReject:  0,
		domain.NotificationStatusExpired: 0,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/status-counts", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int32
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, int32(2), counts["sent"])
	assert.Contains(t, counts, "expired")
}

func TestAssignmentHandler_CreateAssignments(t *testing.T) {
	t.Run("Capacity Conflict", func(t *testing.T) {
		f := newRouterFixture()
		f.assignments.On("CreateAssignments", mock.Anything, "t-1", []string{"v-1", "v-2"}).
			Return(nil, service.ErrCapacityExceeded)

		b, _ := json.Marshal(map[string][]string{"volunteer_ids": {"v-1", "v-2"}})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/t-1/assignments", bytes.NewBuffer(b))
		req.Header.Set("Authorization", f.bearer(t, "admin"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Create And Dispatch", func(t *testing.T) {
		f := newRouterFixture()
		created := []domain.TaskAssignment{
			{ID: "a-1", TaskID: "t-1", VolunteerID: "v-1", NotificationStatus: domain.NotificationStatusPending},
		}
		f.assignments.On("CreateAssignments", mock.Anything, "t-1", []string{"v-1"}).Return(created, nil)
		f.dispatch.On("DispatchBatch", mock.Anything, []string{"a-1"}).
			Return([]service.DispatchResult{{AssignmentID: "a-1"}})

		b, _ := json.Marshal(map[string][]string{"volunteer_ids": {"v-1"}})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/t-1/assignments", bytes.NewBuffer(b))
		req.Header.Set("Authorization", f.bearer(t, "admin"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"sent":true`)
	})
}
