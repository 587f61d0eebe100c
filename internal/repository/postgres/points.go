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

type pointsRepository struct {
	db *sql.DB
}

func NewPointsRepository(db *sql.DB) repository.PointsRepository {
	return &pointsRepository{db: db}
}

// Create appends one grant. Double-granting completion credit is prevented by
// the points_completion_once unique index, so two concurrent completion
// requests cannot both succeed.
func (r *pointsRepository) Create(ctx context.Context, entry *domain.PointsEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	logger.DatabaseCall("INSERT", "points", "volunteerID", entry.VolunteerID, "reason", entry.Reason)

	query := `INSERT INTO points (id, volunteer_id, points, reason, description, assignment_id, task_id, event_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW()) RETURNING created_on`
	err := r.db.QueryRowContext(ctx, query, entry.ID, entry.VolunteerID, entry.Points, entry.Reason,
		entry.Description, entry.AssignmentID, entry.TaskID, entry.EventID).Scan(&entry.CreatedOn)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return repository.ErrAlreadyGranted
	}
	return err
}

func (r *pointsRepository) HasCompletionGrant(ctx context.Context, assignmentID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM points WHERE assignment_id = $1 AND reason = 'task_completion')`
	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&exists)
	return exists, err
}

func (r *pointsRepository) TotalForVolunteer(ctx context.Context, volunteerID string) (int32, error) {
	var total int32
	query := `SELECT COALESCE(SUM(points), 0) FROM points WHERE volunteer_id = $1`
	err := r.db.QueryRowContext(ctx, query, volunteerID).Scan(&total)
	return total, err
}

func (r *pointsRepository) Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	query := `SELECT p.volunteer_id, v.first_name || ' ' || v.last_name, SUM(p.points) AS total
	          FROM points p
	          JOIN volunteers v ON p.volunteer_id = v.id
	          GROUP BY p.volunteer_id, v.first_name, v.last_name
	          ORDER BY total DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.VolunteerID, &e.VolunteerName, &e.TotalPoints); err != nil {
			return nil, err
		}
		board = append(board, e)
	}
	return board, rows.Err()
}
