package inmemory

import (
	"context"
	"time"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"
)

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.nextNotifID++
	n.ID = s.nextNotifID
	n.CreatedAt = time.Now()

	stored := *n
	s.notifications = append(s.notifications, &stored)
	return nil
}

// GetNotificationsByUser — свежие сверху
func (s *Storage) GetNotificationsByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	notifs := []*models.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			copied := *s.notifications[i]
			notifs = append(notifs, &copied)
		}
	}
	return notifs, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, n := range s.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repo.ErrNotFound
}
