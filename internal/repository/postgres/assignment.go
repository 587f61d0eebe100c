package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, task_id, event_id, volunteer_id, notification_status, work_status, sent_at, responded_at, completed_at, created_on, updated_on`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.TaskAssignment, error) {
	a := &domain.TaskAssignment{}
	err := row.Scan(&a.ID, &a.TaskID, &a.EventID, &a.VolunteerID, &a.NotificationStatus, &a.WorkStatus,
		&a.SentAt, &a.RespondedAt, &a.CompletedAt, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.TaskAssignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	logger.DatabaseCall("INSERT", "task_assignments", "taskID", a.TaskID, "volunteerID", a.VolunteerID)

	query := `INSERT INTO task_assignments (id, task_id, event_id, volunteer_id, notification_status, work_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING created_on, updated_on`
	return r.db.QueryRowContext(ctx, query, a.ID, a.TaskID, a.EventID, a.VolunteerID, a.NotificationStatus, a.WorkStatus).
		Scan(&a.CreatedOn, &a.UpdatedOn)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE id = $1`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return a, err
}

func (r *assignmentRepository) GetByTaskAndVolunteer(ctx context.Context, taskID, volunteerID string) (*domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments
	          WHERE task_id = $1 AND volunteer_id = $2
	          ORDER BY created_on DESC LIMIT 1`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, taskID, volunteerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return a, err
}

func (r *assignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.TaskAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TaskAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *assignmentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE task_id = $1 ORDER BY created_on`
	return r.list(ctx, query, taskID)
}

func (r *assignmentRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE volunteer_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, volunteerID)
}

func (r *assignmentRepository) CountLiveByTask(ctx context.Context, taskID string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM task_assignments WHERE task_id = $1 AND notification_status <> 'reject'`
	err := r.db.QueryRowContext(ctx, query, taskID).Scan(&count)
	return count, err
}

// TransitionNotificationStatus is the single serialization point for the
// notification lifecycle. The WHERE clause carries the expected status, so
// two racing writers resolve first-writer-wins at the storage layer.
func (r *assignmentRepository) TransitionNotificationStatus(ctx context.Context, id string, from, to domain.NotificationStatus) error {
	logger.DatabaseCall("UPDATE", "task_assignments", "assignmentID", id, "from", from, "to", to)

	query := `UPDATE task_assignments
	          SET notification_status = $3,
	              sent_at = CASE WHEN $3 = 'sent' THEN NOW() ELSE sent_at END,
	              responded_at = CASE WHEN $3 IN ('accept', 'reject') THEN NOW() ELSE responded_at END,
	              updated_on = NOW()
	          WHERE id = $1 AND notification_status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrStaleTransition
	}
	return nil
}

// TransitionWorkStatus enforces the cross-invariants in SQL: a rejected or
// expired row never moves on the work axis, completion is only reachable
// while the notification status is accept, and a completed row is terminal.
func (r *assignmentRepository) TransitionWorkStatus(ctx context.Context, id string, to domain.WorkStatus) error {
	query := `UPDATE task_assignments
	          SET work_status = $2,
	              completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END,
	              updated_on = NOW()
	          WHERE id = $1
	            AND work_status <> 'completed'
	            AND notification_status NOT IN ('reject', 'expired')
	            AND ($2 <> 'completed' OR notification_status = 'accept')`
	res, err := r.db.ExecContext(ctx, query, id, to)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrStaleTransition
	}
	return nil
}

func (r *assignmentRepository) ListExpirable(ctx context.Context, cutoff time.Time) ([]domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments
	          WHERE notification_status = 'sent' AND sent_at < $1
	          ORDER BY sent_at`
	return r.list(ctx, query, cutoff)
}

func (r *assignmentRepository) ListNeedingReminder(ctx context.Context, from, to time.Time) ([]domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments
	          WHERE notification_status = 'sent'
	            AND sent_at >= $1 AND sent_at < $2
	            AND NOT EXISTS (
	                SELECT 1 FROM notifications n
	                WHERE n.assignment_id = task_assignments.id AND n.kind = 'reminder')
	          ORDER BY sent_at`
	return r.list(ctx, query, from, to)
}

func (r *assignmentRepository) CountsByNotificationStatus(ctx context.Context) (map[domain.NotificationStatus]int32, error) {
	counts := map[domain.NotificationStatus]int32{
		domain.NotificationStatusPending: 0,
		domain.NotificationStatusSent:    0,
		domain.NotificationStatusAccept:  0,
		domain.NotificationStatusReject:  0,
		domain.NotificationStatusExpired: 0,
	}

	rows, err := r.db.QueryContext(ctx, `SELECT notification_status, count(*) FROM task_assignments GROUP BY notification_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.NotificationStatus
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *assignmentRepository) ListRoster(ctx context.Context, taskID string) ([]domain.AssignmentProjection, error) {
	query := `SELECT a.id, a.task_id, t.title, e.title,
	                 a.volunteer_id, v.first_name || ' ' || v.last_name, v.email,
	                 a.notification_status, a.work_status, a.sent_at, a.responded_at
	          FROM task_assignments a
	          JOIN tasks t ON a.task_id = t.id
	          JOIN events e ON a.event_id = e.id
	          JOIN volunteers v ON a.volunteer_id = v.id
	          WHERE a.task_id = $1
	          ORDER BY a.created_on`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []domain.AssignmentProjection
	for rows.Next() {
		var p domain.AssignmentProjection
		if err := rows.Scan(&p.AssignmentID, &p.TaskID, &p.TaskTitle, &p.EventTitle,
			&p.VolunteerID, &p.VolunteerName, &p.VolunteerEmail,
			&p.NotificationStatus, &p.WorkStatus, &p.SentAt, &p.RespondedAt); err != nil {
			return nil, err
		}
		roster = append(roster, p)
	}
	return roster, rows.Err()
}
