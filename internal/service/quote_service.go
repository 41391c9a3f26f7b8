package service

import (
	"context"
	"errors"
	"fmt"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	"waveBackend/internal/repository"

	"go.uber.org/zap"
)

// здесь живут правила переговоров: одна активная квота на хелпера,
// атомарное принятие с отклонением остальных

type QuoteService struct {
	quotes QuoteRepository
	tasks  TaskRepository
}

func NewQuoteService(quotes QuoteRepository, tasks TaskRepository) QuoteService {
	return QuoteService{
		quotes: quotes,
		tasks:  tasks,
	}
}

type SubmitQuoteInput struct {
	Charges *float64
	Hours   *float64
	Mobile  string
}

// SubmitQuote создаёт квоту хелпера по открытой задаче. Повторная подача
// заменяет предыдущую квоту целиком, история не хранится.
func (s *QuoteService) SubmitQuote(ctx context.Context, helperID, taskID int64, in SubmitQuoteInput) (*models.Quote, error) {
	switch {
	case in.Charges == nil:
		return nil, NewValidationError("charges", "обязательное поле")
	case in.Hours == nil:
		return nil, NewValidationError("hours", "обязательное поле")
	case in.Mobile == "":
		return nil, NewValidationError("mobile", "обязательное поле")
	case *in.Charges < 0:
		return nil, NewValidationError("charges", "не может быть отрицательным")
	case *in.Hours < 0:
		return nil, NewValidationError("hours", "не может быть отрицательным")
	}

	quote := &models.Quote{
		TaskID:   taskID,
		HelperID: helperID,
		Charges:  *in.Charges,
		Hours:    *in.Hours,
		Mobile:   in.Mobile,
		Status:   models.QuotePending,
	}

	if err := s.quotes.ReplaceQuote(ctx, quote); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена или уже не открыта",
				zap.Int64("task_id", taskID))
			return nil, NewNotFound("открытая задача", taskID)
		}
		return nil, fmt.Errorf("сохранение квоты: %w", err)
	}

	logger.Info("Service: Квота подана",
		zap.Int64("quote_id", quote.ID),
		zap.Int64("task_id", taskID),
		zap.Int64("helper_id", helperID))
	return quote, nil
}

// AcceptQuote принимает квоту от имени постера. Отклонение остальных квот,
// назначение хелпера и уведомления фиксируются одной транзакцией: либо всё,
// либо ничего.
func (s *QuoteService) AcceptQuote(ctx context.Context, actorID, quoteID int64) (*models.Task, *models.Quote, error) {
	quote, err := s.quotes.GetQuoteByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("квота", quoteID)
		}
		return nil, nil, fmt.Errorf("получение квоты: %w", err)
	}

	task, err := s.tasks.GetTaskByID(ctx, quote.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("задача", quote.TaskID)
		}
		return nil, nil, fmt.Errorf("получение задачи: %w", err)
	}

	if task.PosterID != actorID {
		return nil, nil, NewForbidden("принимать квоты может только автор задачи")
	}

	// статус задачи перепроверяется внутри транзакции: из двух конкурентных
	// принятий выигрывает ровно одно
	updatedTask, acceptedQuote, err := s.quotes.AcceptQuote(ctx, quoteID)
	if err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			logger.Warn("Service: Задача уже не открыта",
				zap.Int64("task_id", quote.TaskID),
				zap.Int64("quote_id", quoteID))
			return nil, nil, NewInvalidState("задача уже не принимает квоты",
				ToDetail("task_id", quote.TaskID))
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("квота", quoteID)
		}
		return nil, nil, fmt.Errorf("принятие квоты: %w", err)
	}

	logger.Info("Service: Квота принята",
		zap.Int64("quote_id", quoteID),
		zap.Int64("task_id", updatedTask.ID),
		zap.Int64("helper_id", acceptedQuote.HelperID))
	return updatedTask, acceptedQuote, nil
}

func (s *QuoteService) ListQuotesByTask(ctx context.Context, taskID int64) ([]*models.Quote, error) {
	quotes, err := s.quotes.GetQuotesByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение квот: %w", err)
	}
	return quotes, nil
}
