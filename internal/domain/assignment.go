package domain

import "time"

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusAccept  NotificationStatus = "accept"
	NotificationStatusReject  NotificationStatus = "reject"
	NotificationStatusExpired NotificationStatus = "expired"
)

// IsTerminal reports whether the status admits no further transitions.
func (s NotificationStatus) IsTerminal() bool {
	return s == NotificationStatusAccept || s == NotificationStatusReject || s == NotificationStatusExpired
}

// WorkStatus tracks assignment progress independently of the notification
// lifecycle. A rejected assignment never advances past its current work state.
type WorkStatus string

const (
	WorkStatusTodo       WorkStatus = "todo"
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusReview     WorkStatus = "review"
	WorkStatusCompleted  WorkStatus = "completed"
)

// ResponseAction is a volunteer's answer to a task invitation.
type ResponseAction string

const (
	ResponseActionAccept ResponseAction = "accept"
	ResponseActionReject ResponseAction = "reject"
)

func (a ResponseAction) Valid() bool {
	return a == ResponseActionAccept || a == ResponseActionReject
}

// Status returns the terminal notification status the action resolves to.
func (a ResponseAction) Status() NotificationStatus {
	if a == ResponseActionAccept {
		return NotificationStatusAccept
	}
	return NotificationStatusReject
}

type TaskAssignment struct {
	ID                 string              `json:"id"`
	TaskID             string              `json:"task_id"`
	EventID            string              `json:"event_id"`
	VolunteerID        string              `json:"volunteer_id"`
	NotificationStatus NotificationStatus  `json:"notification_status"`
	WorkStatus         WorkStatus          `json:"work_status"`
	SentAt             *time.Time          `json:"sent_at,omitempty"`
	RespondedAt        *time.Time          `json:"responded_at,omitempty"`
	CompletedAt        *time.Time          `json:"completed_at,omitempty"`
	CreatedOn          time.Time           `json:"created_on"`
	UpdatedOn          time.Time           `json:"updated_on"`
}

// AssignmentProjection is the canonical read shape for dashboards: one
// assignment with volunteer and task detail denormalized at read time.
type AssignmentProjection struct {
	AssignmentID       string             `json:"assignment_id"`
	TaskID             string             `json:"task_id"`
	TaskTitle          string             `json:"task_title"`
	EventTitle         string             `json:"event_title"`
	VolunteerID        string             `json:"volunteer_id"`
	VolunteerName      string             `json:"volunteer_name"`
	VolunteerEmail     string             `json:"volunteer_email"`
	NotificationStatus NotificationStatus `json:"notification_status"`
	WorkStatus         WorkStatus         `json:"work_status"`
	SentAt             *time.Time         `json:"sent_at,omitempty"`
	RespondedAt        *time.Time         `json:"responded_at,omitempty"`
}
