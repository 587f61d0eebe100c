package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/repository"
)

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `INSERT INTO tasks (id, event_id, title, description, status, deadline, max_volunteers, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_on, updated_on`
	return r.db.QueryRowContext(ctx, query, t.ID, t.EventID, t.Title, t.Description, t.Status, t.Deadline, t.MaxVolunteers).
		Scan(&t.CreatedOn, &t.UpdatedOn)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t := &domain.Task{}
	query := `SELECT id, event_id, title, COALESCE(description, ''), status, deadline, max_volunteers, created_on, updated_on
	          FROM tasks WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.EventID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.MaxVolunteers, &t.CreatedOn, &t.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, to domain.TaskStatus) error {
	query := `UPDATE tasks SET status = $2, updated_on = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, to)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *taskRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Task, error) {
	query := `SELECT id, event_id, title, COALESCE(description, ''), status, deadline, max_volunteers, created_on, updated_on
	          FROM tasks WHERE event_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.EventID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.MaxVolunteers, &t.CreatedOn, &t.UpdatedOn); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
