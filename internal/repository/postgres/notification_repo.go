package postgres

import (
	"context"
	"fmt"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"

	"go.uber.org/zap"
)

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (user_id, message)
				VALUES ($1, $2)
				RETURNING id, is_read, created_at`

	err := s.pool.QueryRow(ctx, query, n.UserID, n.Message).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось создать уведомление", err)
		return fmt.Errorf("создание уведомления: %w", err)
	}
	return nil
}

func (s *Storage) GetNotificationsByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at
				FROM notifications
				WHERE user_id = $1
				ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: Не удалось получить уведомления", err)
		return nil, fmt.Errorf("получение уведомлений: %w", err)
	}
	defer rows.Close()

	notifs := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования уведомления", zap.Error(err))
			continue
		}
		notifs = append(notifs, n)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return notifs, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		logger.Error("Repository: Не удалось отметить уведомление", err)
		return fmt.Errorf("отметка о прочтении: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
