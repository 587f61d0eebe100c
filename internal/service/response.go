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
)

var (
	ErrInvalidAction = errors.New("invalid response action")

	// ErrAuthenticationRequired means an email link was opened without a
	// session and its embedded identity could not be honored; the caller
	// must log in and retry, at which point reconciliation restarts with a
	// real session identity.
	ErrAuthenticationRequired = errors.New("authentication required to respond")

	// ErrIdentityMismatch means the acting volunteer is not the assignee
	// and holds no assignment of their own for the task, so there is
	// nothing to re-target the response to.
	ErrIdentityMismatch = errors.New("response identity does not match assignment")
)

// AlreadyResolvedError reports that the assignment reached a different
// terminal status than the requested action. It carries the winning status
// so callers can show "this was already rejected" instead of overwriting.
type AlreadyResolvedError struct {
	Status domain.NotificationStatus
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("assignment already resolved as %s", e.Status)
}

// ReconciliationRequiredError is returned when an authenticated session
// responds to a link addressed to a different volunteer, and the session
// volunteer holds their own assignment for the same task. The response is
// not auto-applied; the caller offers to cancel or explicitly re-target to
// SessionAssignmentID.
type ReconciliationRequiredError struct {
	LinkVolunteerID     string
	SessionAssignmentID string
}

func (e *ReconciliationRequiredError) Error() string {
	return "response link targets a different volunteer; explicit re-targeting required"
}

type responseService struct {
	assignRepo repository.AssignmentRepository
	taskRepo   repository.TaskRepository
	eventRepo  repository.EventRepository
	volRepo    repository.VolunteerRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	bus        *events.Bus
	adminEmail string
}

func NewResponseService(
	assignRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	eventRepo repository.EventRepository,
	volRepo repository.VolunteerRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	bus *events.Bus,
	adminEmail string,
) ResponseService {
	return &responseService{
		assignRepo: assignRepo,
		taskRepo:   taskRepo,
		eventRepo:  eventRepo,
		volRepo:    volRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
		bus:        bus,
		adminEmail: adminEmail,
	}
}

// Respond performs the atomic accept/reject transition. Responses arrive
// from two trust domains: authenticated in-app sessions, and anonymous email
// link clicks carrying the intended volunteer id. actingVolunteerID is the
// session's real identity when authenticated, or the link's embedded id
// otherwise; it is always passed explicitly, never read from ambient state.
func (s *responseService) Respond(ctx context.Context, assignmentID, actingVolunteerID string, action domain.ResponseAction, authenticated bool) (*domain.TaskAssignment, error) {
	if !action.Valid() {
		return nil, ErrInvalidAction
	}

	// A lost CAS is resolved by re-reading, never by surfacing a raw
	// concurrency error: the loser of a benign race (duplicate accept from
	// two tabs) must see the idempotent success path.
	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		a, err := s.assignRepo.GetByID(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrAssignmentNotFound
			}
			return nil, err
		}

		if a.NotificationStatus.IsTerminal() {
			if a.NotificationStatus == action.Status() {
				// Duplicate click: success without touching responded_at.
				return a, nil
			}
			return nil, &AlreadyResolvedError{Status: a.NotificationStatus}
		}

		if a.VolunteerID != actingVolunteerID {
			if !authenticated {
				return nil, ErrAuthenticationRequired
			}
			// The session belongs to a different real volunteer. Never
			// auto-apply; re-targeting requires the session volunteer to
			// already hold an assignment for the same task.
			own, err := s.assignRepo.GetByTaskAndVolunteer(ctx, a.TaskID, actingVolunteerID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrIdentityMismatch
				}
				return nil, err
			}
			return nil, &ReconciliationRequiredError{
				LinkVolunteerID:     a.VolunteerID,
				SessionAssignmentID: own.ID,
			}
		}

		err = s.assignRepo.TransitionNotificationStatus(ctx, a.ID, a.NotificationStatus, action.Status())
		if errors.Is(err, repository.ErrStaleTransition) {
			logger.Debug("Response lost a transition race, re-reading", "assignment_id", a.ID)
			continue
		}
		if err != nil {
			return nil, err
		}

		updated, err := s.assignRepo.GetByID(ctx, a.ID)
		if err != nil {
			return nil, err
		}

		s.settle(ctx, updated, a.NotificationStatus, action)
		return updated, nil
	}

	return nil, fmt.Errorf("assignment %s: %w", assignmentID, repository.ErrStaleTransition)
}

// settle performs the post-transition side effects: mark the in-app
// notification read, tell the admin, and feed the projector. All of it is
// best-effort; the state transition already happened.
func (s *responseService) settle(ctx context.Context, a *domain.TaskAssignment, from domain.NotificationStatus, action domain.ResponseAction) {
	if err := s.noteRepo.MarkReadByAssignment(ctx, a.ID); err != nil {
		logger.Warn("Failed to mark notifications read", "assignment_id", a.ID, "error", err)
	}

	if s.adminEmail != "" {
		task, terr := s.taskRepo.GetByID(ctx, a.TaskID)
		event, eerr := s.eventRepo.GetByID(ctx, a.EventID)
		volunteer, verr := s.volRepo.GetByID(ctx, a.VolunteerID)
		if terr == nil && eerr == nil && verr == nil {
			err := s.emailSvc.SendTaskResponseEmail(ctx, TaskResponseEmail{
				ToEmail:       s.adminEmail,
				TaskTitle:     task.Title,
				EventTitle:    event.Title,
				VolunteerName: volunteer.FullName(),
				Action:        action,
			})
			if err != nil {
				logger.Warn("Failed to send response notification to admin", "assignment_id", a.ID, "error", err)
			}
		}
	}

	s.bus.Publish(events.AssignmentResponded{
		AssignmentID: a.ID,
		TaskID:       a.TaskID,
		VolunteerID:  a.VolunteerID,
		From:         from,
		Action:       action,
		At:           time.Now(),
	})
	logger.Info("Assignment response recorded", "assignment_id", a.ID, "action", action)
}
