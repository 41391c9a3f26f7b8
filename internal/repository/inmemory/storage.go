package inmemory

import (
	"context"
	"sync"
	"waveBackend/internal/models"
)

// Storage — хранилище в памяти для тестов и локальной разработки.
// Один мьютекс на все таблицы: многошаговые операции (замена квоты,
// принятие квоты, каскадное удаление) выполняются атомарно.
type Storage struct {
	mtx *sync.RWMutex

	users         map[int64]*models.User
	tasks         map[int64]*models.Task
	quotes        map[int64]*models.Quote
	ratings       map[int64]*models.Rating
	notifications []*models.Notification

	nextUserID   int64
	nextTaskID   int64
	nextQuoteID  int64
	nextRatingID int64
	nextNotifID  int64
}

func New() *Storage {
	return &Storage{
		mtx:           &sync.RWMutex{},
		users:         make(map[int64]*models.User),
		tasks:         make(map[int64]*models.Task),
		quotes:        make(map[int64]*models.Quote),
		ratings:       make(map[int64]*models.Rating),
		notifications: []*models.Notification{},
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}
