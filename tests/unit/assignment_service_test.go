package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/repository"
	"volunteerhub-backend/internal/service"
)

func newAssignmentFixture() (*MockAssignmentRepo, *MockTaskRepo, *MockVolunteerRepo, service.AssignmentService) {
	assignRepo := new(MockAssignmentRepo)
	taskRepo := new(MockTaskRepo)
	volRepo := new(MockVolunteerRepo)
	svc := service.NewAssignmentService(assignRepo, taskRepo, volRepo, events.NewBus(), 72*time.Hour)
	return assignRepo, taskRepo, volRepo, svc
}

func TestAssignmentService_CreateAssignments(t *testing.T) {
	ctx := context.Background()
	task := &domain.Task{ID: "task-1", EventID: "event-1", Title: "Setup chairs", MaxVolunteers: 3}

	t.Run("Success", func(t *testing.T) {
		assignRepo, taskRepo, volRepo, svc := newAssignmentFixture()
		taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
		assignRepo.On("CountLiveByTask", ctx, "task-1").Return(int32(1), nil)
		volRepo.On("GetByID", ctx, "vol-1").Return(&domain.Volunteer{ID: "vol-1"}, nil)
		volRepo.On("GetByID", ctx, "vol-2").Return(&domain.Volunteer{ID: "vol-2"}, nil)
		assignRepo.On("GetByTaskAndVolunteer", ctx, "task-1", "vol-1").Return(nil, repository.ErrNotFound)
		assignRepo.On("GetByTaskAndVolunteer", ctx, "task-1", "vol-2").Return(nil, repository.ErrNotFound)
		assignRepo.On("Create", ctx, mock.AnythingOfType("*domain.TaskAssignment")).Return(nil)

		created, err := svc.CreateAssignments(ctx, "task-1", []string{"vol-1", "vol-2"})
		assert.NoError(t, err)
		assert.Len(t, created, 2)
		assert.Equal(t, domain.NotificationStatusPending, created[0].NotificationStatus)
		assert.Equal(t, domain.WorkStatusTodo, created[0].WorkStatus)
		assert.Equal(t, "event-1", created[0].EventID)
	})

	t.Run("Capacity Exceeded", func(t *testing.T) {
		assignRepo, taskRepo, _, svc := newAssignmentFixture()
		taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
		assignRepo.On("CountLiveByTask", ctx, "task-1").Return(int32(2), nil)

		created, err := svc.CreateAssignments(ctx, "task-1", []string{"vol-1", "vol-2"})
		assert.ErrorIs(t, err, service.ErrCapacityExceeded)
		assert.Nil(t, created)
		assignRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Rejected Slot Is Reusable", func(t *testing.T) {
		assignRepo, taskRepo, volRepo, svc := newAssignmentFixture()
		taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
		assignRepo.On("CountLiveByTask", ctx, "task-1").Return(int32(0), nil)
		volRepo.On("GetByID", ctx, "vol-1").Return(&domain.Volunteer{ID: "vol-1"}, nil)
		assignRepo.On("GetByTaskAndVolunteer", ctx, "task-1", "vol-1").
			Return(&domain.TaskAssignment{ID: "old", NotificationStatus: domain.NotificationStatusReject}, nil)
		assignRepo.On("Create", ctx, mock.AnythingOfType("*domain.TaskAssignment")).Return(nil)

		created, err := svc.CreateAssignments(ctx, "task-1", []string{"vol-1"})
		assert.NoError(t, err)
		assert.Len(t, created, 1)
	})

	t.Run("Duplicate Live Assignment", func(t *testing.T) {
		assignRepo, taskRepo, volRepo, svc := newAssignmentFixture()
		taskRepo.On("GetByID", ctx, "task-1").Return(task, nil)
		assignRepo.On("CountLiveByTask", ctx, "task-1").Return(int32(1), nil)
		volRepo.On("GetByID", ctx, "vol-1").Return(&domain.Volunteer{ID: "vol-1"}, nil)
		assignRepo.On("GetByTaskAndVolunteer", ctx, "task-1", "vol-1").
			Return(&domain.TaskAssignment{ID: "live", NotificationStatus: domain.NotificationStatusSent}, nil)

		created, err := svc.CreateAssignments(ctx, "task-1", []string{"vol-1"})
		assert.ErrorIs(t, err, service.ErrDuplicateAssignment)
		assert.Nil(t, created)
		assignRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("No Volunteers Selected", func(t *testing.T) {
		_, _, _, svc := newAssignmentFixture()
		created, err := svc.CreateAssignments(ctx, "task-1", nil)
		assert.ErrorIs(t, err, service.ErrNoVolunteersSelected)
		assert.Nil(t, created)
	})

	t.Run("Task Not Found", func(t *testing.T) {
		_, taskRepo, _, svc := newAssignmentFixture()
		taskRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		created, err := svc.CreateAssignments(ctx, "missing", []string{"vol-1"})
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Nil(t, created)
	})
}

func TestAssignmentService_AdvanceWork(t *testing.T) {
	ctx := context.Background()

	t.Run("Completion Requires Accept", func(t *testing.T) {
		assignRepo, _, _, svc := newAssignmentFixture()
		assignRepo.On("GetByID", ctx, "a-1").Return(&domain.TaskAssignment{
			ID:                 "a-1",
			NotificationStatus: domain.NotificationStatusSent,
			WorkStatus:         domain.WorkStatusReview,
		}, nil)

		a, err := svc.AdvanceWork(ctx, "a-1", domain.WorkStatusCompleted)
		assert.ErrorIs(t, err, service.ErrInvalidWorkTransition)
		assert.Nil(t, a)
		assignRepo.AssertNotCalled(t, "TransitionWorkStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Completed Is Terminal", func(t *testing.T) {
		assignRepo, _, _, svc := newAssignmentFixture()
		assignRepo.On("GetByID", ctx, "a-1").Return(&domain.TaskAssignment{
			ID:                 "a-1",
			NotificationStatus: domain.NotificationStatusAccept,
			WorkStatus:         domain.WorkStatusCompleted,
		}, nil)

		_, err := svc.AdvanceWork(ctx, "a-1", domain.WorkStatusReview)
		assert.ErrorIs(t, err, service.ErrInvalidWorkTransition)
	})

	t.Run("Rejected Row Never Advances", func(t *testing.T) {
		// A rejected assignment is frozen on the work axis, not just
		// barred from completion.
		assignRepo, _, _, svc := newAssignmentFixture()
		assignRepo.On("GetByID", ctx, "a-1").Return(&domain.TaskAssignment{
			ID:                 "a-1",
			NotificationStatus: domain.NotificationStatusReject,
			WorkStatus:         domain.WorkStatusTodo,
		}, nil)

		a, err := svc.AdvanceWork(ctx, "a-1", domain.WorkStatusInProgress)
		assert.ErrorIs(t, err, service.ErrInvalidWorkTransition)
		assert.Nil(t, a)
		assignRepo.AssertNotCalled(t, "TransitionWorkStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Expired Row Never Advances", func(t *testing.T) {
		assignRepo, _, _, svc := newAssignmentFixture()
		assignRepo.On("GetByID", ctx, "a-1").Return(&domain.TaskAssignment{
			ID:                 "a-1",
			NotificationStatus: domain.NotificationStatusExpired,
			WorkStatus:         domain.WorkStatusInProgress,
		}, nil)

		_, err := svc.AdvanceWork(ctx, "a-1", domain.WorkStatusReview)
		assert.ErrorIs(t, err, service.ErrInvalidWorkTransition)
		assignRepo.AssertNotCalled(t, "TransitionWorkStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lost Race Maps To Invalid Transition", func(t *testing.T) {
		assignRepo, _, _, svc := newAssignmentFixture()
		assignRepo.On("GetByID", ctx, "a-1").Return(&domain.TaskAssignment{
			ID:                 "a-1",
			NotificationStatus: domain.NotificationStatusAccept,
			WorkStatus:         domain.WorkStatusReview,
		}, nil)
		assignRepo.On("TransitionWorkStatus", ctx, "a-1", domain.WorkStatusCompleted).
			Return(repository.ErrStaleTransition)

		_, err := svc.AdvanceWork(ctx, "a-1", domain.WorkStatusCompleted)
		assert.ErrorIs(t, err, service.ErrInvalidWorkTransition)
	})
}

func TestAssignmentService_SweepExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Expires Stale And Skips Raced Rows", func(t *testing.T) {
		assignRepo, _, _, svc := newAssignmentFixture()
		cutoff := now.Add(-72 * time.Hour)
		stale := []domain.TaskAssignment{
			{ID: "a-1", TaskID: "t-1", VolunteerID: "v-1", NotificationStatus: domain.NotificationStatusSent},
			{ID: "a-2", TaskID: "t-1", VolunteerID: "v-2", NotificationStatus: domain.NotificationStatusSent},
		}
		assignRepo.On("ListExpirable", ctx, cutoff).Return(stale, nil)
		assignRepo.On("TransitionNotificationStatus", ctx, "a-1",
			domain.NotificationStatusSent, domain.NotificationStatusExpired).Return(nil)
		// a-2 answered between the scan and the write; its response wins.
		assignRepo.On("TransitionNotificationStatus", ctx, "a-2",
			domain.NotificationStatusSent, domain.NotificationStatusExpired).Return(repository.ErrStaleTransition)

		count, err := svc.SweepExpired(ctx, now)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), count)
	})

	t.Run("Nothing To Expire", func(t *testing.T) {
		assignRepo, _, _, svc := newAssignmentFixture()
		assignRepo.On("ListExpirable", ctx, now.Add(-72*time.Hour)).Return([]domain.TaskAssignment{}, nil)

		count, err := svc.SweepExpired(ctx, now)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), count)
	})
}
