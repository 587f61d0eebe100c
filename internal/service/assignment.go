package service

import (
	"context"
	"errors"
	"time"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
)

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrVolunteerNotFound     = errors.New("volunteer not found")
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrNoVolunteersSelected  = errors.New("no volunteers selected")
	ErrCapacityExceeded      = errors.New("task volunteer capacity exceeded")
	ErrDuplicateAssignment   = errors.New("volunteer already holds a live assignment for this task")
	ErrInvalidWorkTransition = errors.New("invalid work status transition")
)

type assignmentService struct {
	assignRepo repository.AssignmentRepository
	taskRepo   repository.TaskRepository
	volRepo    repository.VolunteerRepository
	bus        *events.Bus
	window     time.Duration
}

func NewAssignmentService(
	assignRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	volRepo repository.VolunteerRepository,
	bus *events.Bus,
	responseWindow time.Duration,
) AssignmentService {
	return &assignmentService{
		assignRepo: assignRepo,
		taskRepo:   taskRepo,
		volRepo:    volRepo,
		bus:        bus,
		window:     responseWindow,
	}
}

func (s *assignmentService) CreateAssignments(ctx context.Context, taskID string, volunteerIDs []string) ([]domain.TaskAssignment, error) {
	if len(volunteerIDs) == 0 {
		return nil, ErrNoVolunteersSelected
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	live, err := s.assignRepo.CountLiveByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if int32(len(volunteerIDs)) > task.MaxVolunteers-live {
		return nil, ErrCapacityExceeded
	}

	// Validate everything before creating anything, so a capacity or
	// duplicate failure leaves the store untouched.
	for _, volunteerID := range volunteerIDs {
		if _, err := s.volRepo.GetByID(ctx, volunteerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrVolunteerNotFound
			}
			return nil, err
		}
		existing, err := s.assignRepo.GetByTaskAndVolunteer(ctx, taskID, volunteerID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.NotificationStatus != domain.NotificationStatusReject {
			return nil, ErrDuplicateAssignment
		}
	}

	created := make([]domain.TaskAssignment, 0, len(volunteerIDs))
	for _, volunteerID := range volunteerIDs {
		a := &domain.TaskAssignment{
			TaskID:             taskID,
			EventID:            task.EventID,
			VolunteerID:        volunteerID,
			NotificationStatus: domain.NotificationStatusPending,
			WorkStatus:         domain.WorkStatusTodo,
		}
		if err := s.assignRepo.Create(ctx, a); err != nil {
			return created, err
		}
		created = append(created, *a)

		s.bus.Publish(events.AssignmentCreated{
			AssignmentID: a.ID,
			TaskID:       taskID,
			VolunteerID:  volunteerID,
			At:           time.Now(),
		})
	}

	logger.Info("Assignments created", "task_id", taskID, "count", len(created))
	return created, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id string) (*domain.TaskAssignment, error) {
	a, err := s.assignRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAssignmentNotFound
	}
	return a, err
}

func (s *assignmentService) ListByTask(ctx context.Context, taskID string) ([]domain.TaskAssignment, error) {
	return s.assignRepo.ListByTask(ctx, taskID)
}

func (s *assignmentService) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.TaskAssignment, error) {
	return s.assignRepo.ListByVolunteer(ctx, volunteerID)
}

func (s *assignmentService) AdvanceWork(ctx context.Context, id string, to domain.WorkStatus) (*domain.TaskAssignment, error) {
	a, err := s.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.WorkStatus == domain.WorkStatusCompleted {
		return nil, ErrInvalidWorkTransition
	}
	// A rejected or expired assignment is frozen on the work axis.
	if a.NotificationStatus == domain.NotificationStatusReject || a.NotificationStatus == domain.NotificationStatusExpired {
		return nil, ErrInvalidWorkTransition
	}
	if to == domain.WorkStatusCompleted && a.NotificationStatus != domain.NotificationStatusAccept {
		return nil, ErrInvalidWorkTransition
	}

	if err := s.assignRepo.TransitionWorkStatus(ctx, id, to); err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			// Lost a race: the row completed or lost its accept between
			// our read and the write.
			return nil, ErrInvalidWorkTransition
		}
		return nil, err
	}
	return s.assignRepo.GetByID(ctx, id)
}

// SweepExpired ages out unanswered invitations. A CAS loss means the
// volunteer answered in the race window between scan and write; expiration
// never overrides a real response, so the row is skipped silently.
// Overlapping sweeper runs are safe for the same reason.
func (s *assignmentService) SweepExpired(ctx context.Context, now time.Time) (int32, error) {
	cutoff := now.Add(-s.window)
	stale, err := s.assignRepo.ListExpirable(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var expired int32
	for _, a := range stale {
		err := s.assignRepo.TransitionNotificationStatus(ctx, a.ID, domain.NotificationStatusSent, domain.NotificationStatusExpired)
		if errors.Is(err, repository.ErrStaleTransition) {
			logger.Debug("Skipping expiration, assignment answered concurrently", "assignment_id", a.ID)
			continue
		}
		if err != nil {
			return expired, err
		}
		expired++

		s.bus.Publish(events.AssignmentExpired{
			AssignmentID: a.ID,
			TaskID:       a.TaskID,
			VolunteerID:  a.VolunteerID,
			At:           now,
		})
	}
	return expired, nil
}
