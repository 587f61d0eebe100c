package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/service"
)

// MockTaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) ChangeTaskStatus(ctx context.Context, id string, to domain.TaskStatus) error {
	args := m.Called(ctx, id, to)
	return args.Error(0)
}
func (m *MockTaskService) ListTasksByEvent(ctx context.Context, eventID string) ([]domain.Task, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Task), args.Error(1)
}

// MockAssignmentService
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) CreateAssignments(ctx context.Context, taskID string, volunteerIDs []string) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, taskID, volunteerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentService) GetAssignment(ctx context.Context, id string) (*domain.TaskAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentService) ListByTask(ctx context.Context, taskID string) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentService) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, volunteerID)
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentService) AdvanceWork(ctx context.Context, id string, to domain.WorkStatus) (*domain.TaskAssignment, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentService) SweepExpired(ctx context.Context, now time.Time) (int32, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int32), args.Error(1)
}

// MockDispatchService
type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) Dispatch(ctx context.Context, assignmentID string) error {
	args := m.Called(ctx, assignmentID)
	return args.Error(0)
}
func (m *MockDispatchService) DispatchBatch(ctx context.Context, assignmentIDs []string) []service.DispatchResult {
	args := m.Called(ctx, assignmentIDs)
	return args.Get(0).([]service.DispatchResult)
}

// MockResponseService
type MockResponseService struct {
	mock.Mock
}

func (m *MockResponseService) Respond(ctx context.Context, assignmentID, actingVolunteerID string, action domain.ResponseAction, authenticated bool) (*domain.TaskAssignment, error) {
	args := m.Called(ctx, assignmentID, actingVolunteerID, action, authenticated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskAssignment), args.Error(1)
}

// MockPointsService
type MockPointsService struct {
	mock.Mock
}

func (m *MockPointsService) GrantCompletion(ctx context.Context, assignmentID string) (*domain.PointsEntry, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsEntry), args.Error(1)
}
func (m *MockPointsService) TotalPoints(ctx context.Context, volunteerID string) (int32, error) {
	args := m.Called(ctx, volunteerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPointsService) Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// MockProjectorService
type MockProjectorService struct {
	mock.Mock
}

func (m *MockProjectorService) CountsByStatus(ctx context.Context) (map[domain.NotificationStatus]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.NotificationStatus]int32), args.Error(1)
}
func (m *MockProjectorService) RosterForTask(ctx context.Context, taskID string) ([]domain.AssignmentProjection, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.AssignmentProjection), args.Error(1)
}
func (m *MockProjectorService) Close() {
	m.Called()
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, recipientID string, page, pageSize int32) ([]domain.NotificationRecord, int32, error) {
	args := m.Called(ctx, recipientID, page, pageSize)
	return args.Get(0).([]domain.NotificationRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, recipientID, notificationID string) error {
	args := m.Called(ctx, recipientID, notificationID)
	return args.Error(0)
}
