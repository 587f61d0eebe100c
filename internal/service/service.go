package service

import (
	"context"
	"time"

	"volunteerhub-backend/internal/domain"
)

type TaskService interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ChangeTaskStatus(ctx context.Context, id string, to domain.TaskStatus) error
	ListTasksByEvent(ctx context.Context, eventID string) ([]domain.Task, error)
}

type AssignmentService interface {
	// CreateAssignments creates one pending assignment per volunteer, up to
	// the task's remaining capacity.
	CreateAssignments(ctx context.Context, taskID string, volunteerIDs []string) ([]domain.TaskAssignment, error)
	GetAssignment(ctx context.Context, id string) (*domain.TaskAssignment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskAssignment, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.TaskAssignment, error)

	// AdvanceWork moves the work axis; completion requires an accepted
	// invitation and is terminal.
	AdvanceWork(ctx context.Context, id string, to domain.WorkStatus) (*domain.TaskAssignment, error)

	// SweepExpired transitions sent assignments older than the response
	// window to expired and returns how many rows it moved.
	SweepExpired(ctx context.Context, now time.Time) (int32, error)
}

// DispatchResult reports one assignment's outcome within a batch dispatch.
type DispatchResult struct {
	AssignmentID string `json:"assignment_id"`
	Err          error  `json:"-"`
}

type DispatchService interface {
	Dispatch(ctx context.Context, assignmentID string) error
	// DispatchBatch applies the per-assignment dispatch contract
	// independently; one failure never blocks the rest.
	DispatchBatch(ctx context.Context, assignmentIDs []string) []DispatchResult
}

type ResponseService interface {
	// Respond reconciles a volunteer's accept/reject with the assignment,
	// whether it arrives from an authenticated session or an email link.
	Respond(ctx context.Context, assignmentID, actingVolunteerID string, action domain.ResponseAction, authenticated bool) (*domain.TaskAssignment, error)
}

type PointsService interface {
	GrantCompletion(ctx context.Context, assignmentID string) (*domain.PointsEntry, error)
	TotalPoints(ctx context.Context, volunteerID string) (int32, error)
	Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error)
}

type ProjectorService interface {
	CountsByStatus(ctx context.Context) (map[domain.NotificationStatus]int32, error)
	RosterForTask(ctx context.Context, taskID string) ([]domain.AssignmentProjection, error)
	Close()
}

type NotificationService interface {
	GetNotifications(ctx context.Context, recipientID string, page, pageSize int32) ([]domain.NotificationRecord, int32, error)
	MarkAsRead(ctx context.Context, recipientID, notificationID string) error
}

// TaskAssignmentEmail carries everything the invitation template needs.
type TaskAssignmentEmail struct {
	ToEmail          string
	ToName           string
	TaskTitle        string
	EventTitle       string
	TaskDescription  string
	Deadline         string
	AcceptURL        string
	RejectURL        string
	ResponseDeadline string
}

// TaskResponseEmail notifies the admin that a volunteer answered.
type TaskResponseEmail struct {
	ToEmail       string
	TaskTitle     string
	EventTitle    string
	VolunteerName string
	Action        domain.ResponseAction
}

type EmailService interface {
	SendTaskAssignmentEmail(ctx context.Context, p TaskAssignmentEmail) error
	SendTaskResponseEmail(ctx context.Context, p TaskResponseEmail) error
	SendResponseReminderEmail(ctx context.Context, toEmail, toName, taskTitle, eventTitle, acceptURL, rejectURL string) error
}
