package postgres

import (
	"context"
	"database/sql"
	"errors"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/repository"
)

type volunteerRepository struct {
	db *sql.DB
}

func NewVolunteerRepository(db *sql.DB) repository.VolunteerRepository {
	return &volunteerRepository{db: db}
}

func (r *volunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	v := &domain.Volunteer{}
	query := `SELECT id, first_name, last_name, email, created_on FROM volunteers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.FirstName, &v.LastName, &v.Email, &v.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *volunteerRepository) GetByEmail(ctx context.Context, email string) (*domain.Volunteer, error) {
	v := &domain.Volunteer{}
	query := `SELECT id, first_name, last_name, email, created_on FROM volunteers WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&v.ID, &v.FirstName, &v.LastName, &v.Email, &v.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *volunteerRepository) List(ctx context.Context) ([]domain.Volunteer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, first_name, last_name, email, created_on FROM volunteers ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Volunteer
	for rows.Next() {
		var v domain.Volunteer
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &v.Email, &v.CreatedOn); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e := &domain.Event{}
	query := `SELECT id, title, created_on FROM events WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Title, &e.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
