package domain

import "time"

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelInApp NotificationChannel = "in_app"
)

type NotificationKind string

const (
	NotificationKindDispatch NotificationKind = "dispatch"
	NotificationKindReminder NotificationKind = "reminder"
)

// NotificationRecord is one outbound delivery attempt for an assignment.
// Resends produce additional records; reconciliation always keys off the
// assignment, never the record. A reminder record doubles as the marker
// that stops the reminder job from nudging the same assignment twice.
type NotificationRecord struct {
	ID            string              `json:"id"`
	AssignmentID  string              `json:"assignment_id"`
	RecipientID   string              `json:"recipient_id"`
	Channel       NotificationChannel `json:"channel"`
	Kind          NotificationKind    `json:"kind"`
	Title         string              `json:"title"`
	Message       string              `json:"message"`
	ResponseToken string              `json:"response_token"`
	IsRead        bool                `json:"is_read"`
	DeliveredAt   *time.Time          `json:"delivered_at,omitempty"`
	CreatedOn     time.Time           `json:"created_on"`
}
