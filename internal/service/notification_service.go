package service

import (
	"context"
	"errors"
	"fmt"
	"waveBackend/internal/models"
	"waveBackend/internal/repository"
)

type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) NotificationService {
	return NotificationService{
		repo: repo,
	}
}

// Notify — добавление записи в ленту уведомлений. Уведомления переговоров
// создаёт не этот метод, а транзакция AcceptQuote в хранилище.
func (s *NotificationService) Notify(ctx context.Context, userID int64, message string) error {
	n := &models.Notification{
		UserID:  userID,
		Message: message,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("создание уведомления: %w", err)
	}
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID int64) ([]*models.Notification, error) {
	notifs, err := s.repo.GetNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение уведомлений: %w", err)
	}
	return notifs, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	err := s.repo.MarkNotificationRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("уведомление", notificationID)
		}
		return fmt.Errorf("отметка о прочтении: %w", err)
	}
	return nil
}
