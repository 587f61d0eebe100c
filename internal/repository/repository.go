package repository

import (
	"context"
	"errors"
	"time"

	"volunteerhub-backend/internal/domain"
)

var (
	// ErrNotFound is returned by read accessors when no row matches.
	ErrNotFound = errors.New("record not found")

	// ErrStaleTransition is returned when a compare-and-swap finds the row in
	// a different state than expected. Callers decide whether that is an
	// error; duplicate delivery is business as usual.
	ErrStaleTransition = errors.New("stale transition: status changed concurrently")

	// ErrAlreadyGranted is returned when a completion grant already exists
	// for the assignment. Enforced by a unique index, not application logic.
	ErrAlreadyGranted = errors.New("completion credit already granted")

	// ErrAlreadyReminded is returned when a reminder record already exists
	// for the assignment. Enforced by a unique index like ErrAlreadyGranted.
	ErrAlreadyReminded = errors.New("reminder already recorded for assignment")
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, to domain.TaskStatus) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.Task, error)
}

type VolunteerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Volunteer, error)
	List(ctx context.Context) ([]domain.Volunteer, error)
}

type EventRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.TaskAssignment) error
	GetByID(ctx context.Context, id string) (*domain.TaskAssignment, error)
	GetByTaskAndVolunteer(ctx context.Context, taskID, volunteerID string) (*domain.TaskAssignment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskAssignment, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.TaskAssignment, error)

	// CountLiveByTask counts assignments holding a capacity slot for the
	// task, i.e. everything except rejected rows.
	CountLiveByTask(ctx context.Context, taskID string) (int32, error)

	// TransitionNotificationStatus performs the per-row compare-and-swap.
	// It succeeds only if the current status equals from; otherwise it
	// returns ErrStaleTransition. Sent and responded timestamps are stamped
	// in the same statement.
	TransitionNotificationStatus(ctx context.Context, id string, from, to domain.NotificationStatus) error

	// TransitionWorkStatus moves the work axis. Completion requires an
	// accepted notification status and a not-yet-completed row; violations
	// return ErrStaleTransition.
	TransitionWorkStatus(ctx context.Context, id string, to domain.WorkStatus) error

	// ListExpirable returns sent assignments whose sent_at is before cutoff.
	ListExpirable(ctx context.Context, cutoff time.Time) ([]domain.TaskAssignment, error)

	// ListNeedingReminder returns sent assignments with sent_at in
	// [from, to) that have no reminder record yet. Rows older than from are
	// the expiry job's business, not the reminder job's.
	ListNeedingReminder(ctx context.Context, from, to time.Time) ([]domain.TaskAssignment, error)

	CountsByNotificationStatus(ctx context.Context) (map[domain.NotificationStatus]int32, error)

	// ListRoster returns assignments for a task with volunteer and task
	// detail denormalized, ordered by creation time.
	ListRoster(ctx context.Context, taskID string) ([]domain.AssignmentProjection, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, rec *domain.NotificationRecord) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int32) ([]domain.NotificationRecord, int32, error)
	MarkAsRead(ctx context.Context, id, recipientID string) error
	MarkReadByAssignment(ctx context.Context, assignmentID string) error
}

type PointsRepository interface {
	// Create appends one grant. A second task_completion grant for the same
	// assignment returns ErrAlreadyGranted.
	Create(ctx context.Context, entry *domain.PointsEntry) error
	HasCompletionGrant(ctx context.Context, assignmentID string) (bool, error)
	TotalForVolunteer(ctx context.Context, volunteerID string) (int32, error)
	Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error)
}
