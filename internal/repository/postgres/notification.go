package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create appends one record. At most one reminder record exists per
// assignment, enforced by the notifications_reminder_once unique index, so
// overlapping reminder runs cannot both mark the same row.
func (r *notificationRepository) Create(ctx context.Context, rec *domain.NotificationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Kind == "" {
		rec.Kind = domain.NotificationKindDispatch
	}
	logger.DatabaseCall("INSERT", "notifications", "assignmentID", rec.AssignmentID, "channel", rec.Channel)

	query := `INSERT INTO notifications (id, assignment_id, recipient_id, channel, kind, title, message, response_token, is_read, delivered_at, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()) RETURNING created_on`
	err := r.db.QueryRowContext(ctx, query, rec.ID, rec.AssignmentID, rec.RecipientID, rec.Channel, rec.Kind,
		rec.Title, rec.Message, rec.ResponseToken, rec.IsRead, rec.DeliveredAt).Scan(&rec.CreatedOn)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return repository.ErrAlreadyReminded
	}
	return err
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int32) ([]domain.NotificationRecord, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE recipient_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, recipientID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, assignment_id, recipient_id, channel, kind, title, message, response_token, is_read, delivered_at, created_on
	          FROM notifications WHERE recipient_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []domain.NotificationRecord
	for rows.Next() {
		var rec domain.NotificationRecord
		if err := rows.Scan(&rec.ID, &rec.AssignmentID, &rec.RecipientID, &rec.Channel, &rec.Kind,
			&rec.Title, &rec.Message, &rec.ResponseToken, &rec.IsRead, &rec.DeliveredAt, &rec.CreatedOn); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, recipientID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`
	_, err := r.db.ExecContext(ctx, query, id, recipientID)
	return err
}

func (r *notificationRepository) MarkReadByAssignment(ctx context.Context, assignmentID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE assignment_id = $1`
	_, err := r.db.ExecContext(ctx, query, assignmentID)
	return err
}
