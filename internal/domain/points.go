package domain

import "time"

type PointsReason string

const (
	PointsReasonTaskCompletion PointsReason = "task_completion"
	PointsReasonAdjustment     PointsReason = "adjustment"
)

// PointsEntry is an append-only credit grant. At most one entry with reason
// task_completion may exist per assignment; the storage layer enforces this
// with a partial unique index.
type PointsEntry struct {
	ID           string       `json:"id"`
	VolunteerID  string       `json:"volunteer_id"`
	Points       int32        `json:"points"`
	Reason       PointsReason `json:"reason"`
	Description  string       `json:"description"`
	AssignmentID *string      `json:"assignment_id,omitempty"`
	TaskID       *string      `json:"task_id,omitempty"`
	EventID      *string      `json:"event_id,omitempty"`
	CreatedOn    time.Time    `json:"created_on"`
}

type LeaderboardEntry struct {
	VolunteerID   string `json:"volunteer_id"`
	VolunteerName string `json:"volunteer_name"`
	TotalPoints   int32  `json:"total_points"`
}
