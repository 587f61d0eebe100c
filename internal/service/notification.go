package service

import (
	"context"
	"errors"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, recipientID string, page, pageSize int32) ([]domain.NotificationRecord, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.ListByRecipient(ctx, recipientID, pageSize, offset)
}

// MarkAsRead is scoped to the recipient so one volunteer cannot clear
// another's inbox.
func (s *notificationService) MarkAsRead(ctx context.Context, recipientID, notificationID string) error {
	if err := s.noteRepo.MarkAsRead(ctx, notificationID, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
