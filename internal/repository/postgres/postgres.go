package postgres

import (
	"database/sql"

	"volunteerhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TaskRepository
	repository.VolunteerRepository
	repository.EventRepository
	repository.AssignmentRepository
	repository.NotificationRepository
	repository.PointsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		TaskRepository:         NewTaskRepository(db),
		VolunteerRepository:    NewVolunteerRepository(db),
		EventRepository:        NewEventRepository(db),
		AssignmentRepository:   NewAssignmentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		PointsRepository:       NewPointsRepository(db),
	}
}
