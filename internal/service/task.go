package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/repository"
)

var (
	ErrTaskTitleRequired = errors.New("task title is required")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

type taskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

func (s *taskService) CreateTask(ctx context.Context, task *domain.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrTaskTitleRequired
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	if task.MaxVolunteers <= 0 {
		task.MaxVolunteers = 1
	}
	return s.taskRepo.Create(ctx, task)
}

func (s *taskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ChangeTaskStatus(ctx context.Context, id string, to domain.TaskStatus) error {
	switch to {
	case domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusReview, domain.TaskStatusDone:
	default:
		return ErrInvalidTaskStatus
	}
	if err := s.taskRepo.UpdateStatus(ctx, id, to); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *taskService) ListTasksByEvent(ctx context.Context, eventID string) ([]domain.Task, error) {
	return s.taskRepo.ListByEvent(ctx, eventID)
}
