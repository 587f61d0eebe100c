package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
)

var (
	// ErrNotCompleted means completion credit was requested for an
	// assignment whose work has not reached completed.
	ErrNotCompleted = errors.New("assignment work is not completed")

	// ErrPointsAlreadyGranted is the service-level view of a duplicate
	// completion grant. Callers treat it as idempotent success.
	ErrPointsAlreadyGranted = errors.New("completion points already granted")
)

type pointsService struct {
	pointsRepo repository.PointsRepository
	assignRepo repository.AssignmentRepository
	taskRepo   repository.TaskRepository
	reward     int32
}

func NewPointsService(pointsRepo repository.PointsRepository, assignRepo repository.AssignmentRepository, taskRepo repository.TaskRepository, reward int32) PointsService {
	return &pointsService{
		pointsRepo: pointsRepo,
		assignRepo: assignRepo,
		taskRepo:   taskRepo,
		reward:     reward,
	}
}

// GrantCompletion credits the volunteer for a completed assignment exactly
// once. The uniqueness guarantee lives in the store's partial unique index;
// this method only decides eligibility and maps the duplicate error.
func (s *pointsService) GrantCompletion(ctx context.Context, assignmentID string) (*domain.PointsEntry, error) {
	a, err := s.assignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if a.WorkStatus != domain.WorkStatusCompleted {
		return nil, ErrNotCompleted
	}

	description := "Task completion"
	if task, terr := s.taskRepo.GetByID(ctx, a.TaskID); terr == nil {
		description = fmt.Sprintf("Completed task: %s", task.Title)
	}

	entry := &domain.PointsEntry{
		ID:           uuid.New().String(),
		VolunteerID:  a.VolunteerID,
		Points:       s.reward,
		Reason:       domain.PointsReasonTaskCompletion,
		Description:  description,
		AssignmentID: &a.ID,
		TaskID:       &a.TaskID,
		EventID:      &a.EventID,
	}
	if err := s.pointsRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrAlreadyGranted) {
			logger.Debug("Completion points already granted", "assignment_id", assignmentID)
			return nil, ErrPointsAlreadyGranted
		}
		return nil, err
	}

	logger.Info("Completion points granted",
		"assignment_id", assignmentID,
		"volunteer_id", a.VolunteerID,
		"points", s.reward)
	return entry, nil
}

func (s *pointsService) TotalPoints(ctx context.Context, volunteerID string) (int32, error) {
	return s.pointsRepo.TotalForVolunteer(ctx, volunteerID)
}

func (s *pointsService) Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.pointsRepo.Leaderboard(ctx, limit)
}
