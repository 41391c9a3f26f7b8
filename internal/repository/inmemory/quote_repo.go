package inmemory

import (
	"context"
	"sort"
	"time"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"
)

// ReplaceQuote — удаление старой квоты хелпера и вставка новой как одно целое
func (s *Storage) ReplaceQuote(ctx context.Context, quote *models.Quote) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	task, ok := s.tasks[quote.TaskID]
	if !ok || task.Status != models.StatusOpen {
		return repo.ErrNotFound
	}

	for qid, q := range s.quotes {
		if q.TaskID == quote.TaskID && q.HelperID == quote.HelperID {
			delete(s.quotes, qid)
		}
	}

	s.nextQuoteID++
	quote.ID = s.nextQuoteID
	quote.CreatedAt = time.Now()

	stored := *quote
	s.quotes[quote.ID] = &stored
	return nil
}

func (s *Storage) GetQuoteByID(ctx context.Context, id int64) (*models.Quote, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *quote
	return &copied, nil
}

func (s *Storage) GetQuotesByTask(ctx context.Context, taskID int64) ([]*models.Quote, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	quotes := []*models.Quote{}
	for _, q := range s.quotes {
		if q.TaskID == taskID {
			copied := *q
			quotes = append(quotes, &copied)
		}
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].ID < quotes[j].ID })
	return quotes, nil
}

// AcceptQuote выполняет весь переход переговоров под одним мьютексом:
// отклонение чужих квот, принятие выбранной, назначение хелпера
// и уведомления участникам
func (s *Storage) AcceptQuote(ctx context.Context, quoteID int64) (*models.Task, *models.Quote, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	quote, ok := s.quotes[quoteID]
	if !ok {
		return nil, nil, repo.ErrNotFound
	}

	task, ok := s.tasks[quote.TaskID]
	if !ok {
		return nil, nil, repo.ErrNotFound
	}

	if task.Status != models.StatusOpen {
		return nil, nil, repo.ErrStateConflict
	}

	for _, q := range s.quotes {
		if q.TaskID == task.ID && q.ID != quoteID {
			q.Status = models.QuoteDeclined
			s.appendNotification(q.HelperID, models.QuoteDeclinedMessage(task.Title))
		}
	}

	quote.Status = models.QuoteAccepted

	now := time.Now()
	helperID := quote.HelperID
	charges := quote.Charges
	hours := quote.Hours
	task.HelperID = &helperID
	task.Charges = &charges
	task.Hours = &hours
	task.Status = models.StatusAccepted
	task.UpdatedAt = &now

	s.appendNotification(quote.HelperID, models.QuoteAcceptedMessage(task.Title))

	taskCopy := *task
	quoteCopy := *quote
	return &taskCopy, &quoteCopy, nil
}

// вызывать только под мьютексом
func (s *Storage) appendNotification(userID int64, message string) {
	s.nextNotifID++
	s.notifications = append(s.notifications, &models.Notification{
		ID:        s.nextNotifID,
		UserID:    userID,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	})
}
