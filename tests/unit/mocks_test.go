package unit

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/service"
)

// MockTaskRepo
type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskRepo) UpdateStatus(ctx context.Context, id string, to domain.TaskStatus) error {
	args := m.Called(ctx, id, to)
	return args.Error(0)
}
func (m *MockTaskRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Task, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Task), args.Error(1)
}

// MockVolunteerRepo
type MockVolunteerRepo struct {
	mock.Mock
}

func (m *MockVolunteerRepo) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Volunteer), args.Error(1)
}
func (m *MockVolunteerRepo) GetByEmail(ctx context.Context, email string) (*domain.Volunteer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Volunteer), args.Error(1)
}
func (m *MockVolunteerRepo) List(ctx context.Context) ([]domain.Volunteer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Volunteer), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

// MockAssignmentRepo
type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(ctx context.Context, a *domain.TaskAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.TaskAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) GetByTaskAndVolunteer(ctx context.Context, taskID, volunteerID string) (*domain.TaskAssignment, error) {
	args := m.Called(ctx, taskID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) ListByTask(ctx context.Context, taskID string) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, volunteerID)
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) CountLiveByTask(ctx context.Context, taskID string) (int32, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockAssignmentRepo) TransitionNotificationStatus(ctx context.Context, id string, from, to domain.NotificationStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockAssignmentRepo) TransitionWorkStatus(ctx context.Context, id string, to domain.WorkStatus) error {
	args := m.Called(ctx, id, to)
	return args.Error(0)
}
func (m *MockAssignmentRepo) ListExpirable(ctx context.Context, cutoff time.Time) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) ListNeedingReminder(ctx context.Context, from, to time.Time) ([]domain.TaskAssignment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.TaskAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) CountsByNotificationStatus(ctx context.Context) (map[domain.NotificationStatus]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.NotificationStatus]int32), args.Error(1)
}
func (m *MockAssignmentRepo) ListRoster(ctx context.Context, taskID string) ([]domain.AssignmentProjection, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.AssignmentProjection), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, rec *domain.NotificationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit, offset int32) ([]domain.NotificationRecord, int32, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	return args.Get(0).([]domain.NotificationRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkReadByAssignment(ctx context.Context, assignmentID string) error {
	args := m.Called(ctx, assignmentID)
	return args.Error(0)
}

// MockPointsRepo
type MockPointsRepo struct {
	mock.Mock
}

func (m *MockPointsRepo) Create(ctx context.Context, entry *domain.PointsEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockPointsRepo) HasCompletionGrant(ctx context.Context, assignmentID string) (bool, error) {
	args := m.Called(ctx, assignmentID)
	return args.Get(0).(bool), args.Error(1)
}
func (m *MockPointsRepo) TotalForVolunteer(ctx context.Context, volunteerID string) (int32, error) {
	args := m.Called(ctx, volunteerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPointsRepo) Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTaskAssignmentEmail(ctx context.Context, p service.TaskAssignmentEmail) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockEmailService) SendTaskResponseEmail(ctx context.Context, p service.TaskResponseEmail) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockEmailService) SendResponseReminderEmail(ctx context.Context, toEmail, toName, taskTitle, eventTitle, acceptURL, rejectURL string) error {
	args := m.Called(ctx, toEmail, toName, taskTitle, eventTitle, acceptURL, rejectURL)
	return args.Error(0)
}
