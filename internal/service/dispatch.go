package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
	"volunteerhub-backend/internal/security"
)

// ErrNotDispatchable means the assignment already left pending. For batch
// dispatch this is recorded per assignment rather than failing the batch.
var ErrNotDispatchable = errors.New("assignment is not pending")

// DispatchConfig carries the knobs the dispatcher needs from configuration.
type DispatchConfig struct {
	BaseURL        string
	ResponseWindow time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

type dispatchService struct {
	assignRepo repository.AssignmentRepository
	taskRepo   repository.TaskRepository
	eventRepo  repository.EventRepository
	volRepo    repository.VolunteerRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	bus        *events.Bus
	cfg        DispatchConfig
}

func NewDispatchService(
	assignRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	eventRepo repository.EventRepository,
	volRepo repository.VolunteerRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	bus *events.Bus,
	cfg DispatchConfig,
) DispatchService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	return &dispatchService{
		assignRepo: assignRepo,
		taskRepo:   taskRepo,
		eventRepo:  eventRepo,
		volRepo:    volRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
		bus:        bus,
		cfg:        cfg,
	}
}

// Dispatch delivers the invitation for one pending assignment and flips it
// to sent. Delivery is at-least-once: if a concurrent dispatch already won
// the pending->sent CAS, the duplicate delivery is discarded silently and
// the state transition stays exactly-once.
func (s *dispatchService) Dispatch(ctx context.Context, assignmentID string) error {
	a, err := s.assignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if a.NotificationStatus != domain.NotificationStatusPending {
		return ErrNotDispatchable
	}

	task, err := s.taskRepo.GetByID(ctx, a.TaskID)
	if err != nil {
		return fmt.Errorf("loading task for dispatch: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, a.EventID)
	if err != nil {
		return fmt.Errorf("loading event for dispatch: %w", err)
	}
	volunteer, err := s.volRepo.GetByID(ctx, a.VolunteerID)
	if err != nil {
		return fmt.Errorf("loading volunteer for dispatch: %w", err)
	}

	now := time.Now()
	token := security.EncodeResponseToken(a.ID, a.VolunteerID, now)
	acceptURL := s.responseURL(domain.ResponseActionAccept, a.ID, a.VolunteerID, token)
	rejectURL := s.responseURL(domain.ResponseActionReject, a.ID, a.VolunteerID, token)

	deadline := "Not specified"
	if task.Deadline != nil {
		deadline = task.Deadline.Format("January 2, 2006")
	}
	email := TaskAssignmentEmail{
		ToEmail:          volunteer.Email,
		ToName:           volunteer.FullName(),
		TaskTitle:        task.Title,
		EventTitle:       event.Title,
		TaskDescription:  task.Description,
		Deadline:         deadline,
		AcceptURL:        acceptURL,
		RejectURL:        rejectURL,
		ResponseDeadline: now.Add(s.cfg.ResponseWindow).Format("January 2, 2006"),
	}

	// Delivery failures leave the assignment pending so no state is lost;
	// a later dispatch retries from scratch.
	if err := s.sendWithBackoff(ctx, email); err != nil {
		return fmt.Errorf("delivering assignment notification: %w", err)
	}

	message := fmt.Sprintf("You have been assigned to task %q for event %q", task.Title, event.Title)
	for _, rec := range []*domain.NotificationRecord{
		{
			AssignmentID:  a.ID,
			RecipientID:   a.VolunteerID,
			Channel:       domain.NotificationChannelEmail,
			Kind:          domain.NotificationKindDispatch,
			Title:         "New Task Assignment: " + task.Title,
			Message:       message,
			ResponseToken: token,
			DeliveredAt:   &now,
		},
		{
			AssignmentID:  a.ID,
			RecipientID:   a.VolunteerID,
			Channel:       domain.NotificationChannelInApp,
			Kind:          domain.NotificationKindDispatch,
			Title:         "New Task Assignment: " + task.Title,
			Message:       message,
			ResponseToken: token,
		},
	} {
		if err := s.noteRepo.Create(ctx, rec); err != nil {
			logger.Error("Failed to record notification", "assignment_id", a.ID, "channel", rec.Channel, "error", err)
		}
	}

	err = s.assignRepo.TransitionNotificationStatus(ctx, a.ID, domain.NotificationStatusPending, domain.NotificationStatusSent)
	if errors.Is(err, repository.ErrStaleTransition) {
		logger.Debug("Assignment already dispatched concurrently", "assignment_id", a.ID)
		return nil
	}
	if err != nil {
		return err
	}

	s.bus.Publish(events.AssignmentDispatched{
		AssignmentID: a.ID,
		TaskID:       a.TaskID,
		VolunteerID:  a.VolunteerID,
		At:           now,
	})
	logger.Info("Assignment dispatched", "assignment_id", a.ID, "volunteer_email", volunteer.Email)
	return nil
}

func (s *dispatchService) DispatchBatch(ctx context.Context, assignmentIDs []string) []DispatchResult {
	results := make([]DispatchResult, 0, len(assignmentIDs))
	for _, id := range assignmentIDs {
		err := s.Dispatch(ctx, id)
		if err != nil {
			logger.Error("Batch dispatch entry failed", "assignment_id", id, "error", err)
		}
		results = append(results, DispatchResult{AssignmentID: id, Err: err})
	}
	return results
}

func (s *dispatchService) responseURL(action domain.ResponseAction, assignmentID, volunteerID, token string) string {
	return fmt.Sprintf("%s/volunteer/task-response?action=%s&id=%s&volunteerId=%s&token=%s",
		s.cfg.BaseURL, action, assignmentID, volunteerID, token)
}

func (s *dispatchService) sendWithBackoff(ctx context.Context, email TaskAssignmentEmail) error {
	var lastErr error
	delay := s.cfg.InitialBackoff
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		lastErr = s.emailSvc.SendTaskAssignmentEmail(ctx, email)
		if lastErr == nil {
			return nil
		}
		logger.Warn("Notification delivery attempt failed",
			"to", email.ToEmail, "attempt", attempt, "error", lastErr)

		if attempt == s.cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return lastErr
}
