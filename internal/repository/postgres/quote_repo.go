package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const quoteSelect = `SELECT q.id, q.task_id, q.helper_id, u.username, q.charges, q.hours, q.mobile, q.status, q.created_at
				FROM quotes q
				JOIN users u ON u.id = q.helper_id`

func scanQuote(row pgx.Row) (*models.Quote, error) {
	quote := &models.Quote{}
	err := row.Scan(
		&quote.ID,
		&quote.TaskID,
		&quote.HelperID,
		&quote.HelperName,
		&quote.Charges,
		&quote.Hours,
		&quote.Mobile,
		&quote.Status,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// ReplaceQuote проверяет, что задача открыта, удаляет прошлую квоту хелпера
// и вставляет новую — всё в одной транзакции
func (s *Storage) ReplaceQuote(ctx context.Context, quote *models.Quote) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var taskID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM tasks WHERE id = $1 AND status = $2 FOR UPDATE`,
		quote.TaskID, models.StatusOpen,
	).Scan(&taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось проверить задачу", err)
		return fmt.Errorf("проверка задачи: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM quotes WHERE task_id = $1 AND helper_id = $2`,
		quote.TaskID, quote.HelperID,
	); err != nil {
		logger.Error("Repository: Не удалось удалить прежнюю квоту", err)
		return fmt.Errorf("удаление прежней квоты: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO quotes (task_id, helper_id, charges, hours, mobile, status)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at`,
		quote.TaskID, quote.HelperID, quote.Charges, quote.Hours, quote.Mobile, quote.Status,
	).Scan(&quote.ID, &quote.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось вставить квоту", err)
		return fmt.Errorf("вставка квоты: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить замену квоты", err)
		return fmt.Errorf("коммит замены квоты: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetQuoteByID(ctx context.Context, id int64) (*models.Quote, error) {
	quote, err := scanQuote(s.pool.QueryRow(ctx, quoteSelect+` WHERE q.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить квоту", err)
		return nil, fmt.Errorf("получение квоты: %w", err)
	}
	return quote, nil
}

func (s *Storage) GetQuotesByTask(ctx context.Context, taskID int64) ([]*models.Quote, error) {
	return s.getQuotes(ctx, quoteSelect+` WHERE q.task_id = $1 ORDER BY q.id`, taskID)
}

// AcceptQuote — вся развязка переговоров одной транзакцией: отклонение
// остальных квот с уведомлениями, принятие выбранной, назначение хелпера.
// Если задача уже не открыта, транзакция откатывается с ErrStateConflict —
// из двух конкурентных принятий фиксируется только одно.
func (s *Storage) AcceptQuote(ctx context.Context, quoteID int64) (*models.Task, *models.Quote, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	quote := &models.Quote{}
	err = tx.QueryRow(ctx,
		`SELECT id, task_id, helper_id, charges, hours, mobile, status, created_at
				FROM quotes WHERE id = $1 FOR UPDATE`,
		quoteID,
	).Scan(&quote.ID, &quote.TaskID, &quote.HelperID, &quote.Charges, &quote.Hours,
		&quote.Mobile, &quote.Status, &quote.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить квоту", err)
		return nil, nil, fmt.Errorf("получение квоты: %w", err)
	}

	// блокируем задачу и перепроверяем статус уже внутри транзакции
	var taskTitle string
	err = tx.QueryRow(ctx,
		`SELECT title FROM tasks WHERE id = $1 AND status = $2 FOR UPDATE`,
		quote.TaskID, models.StatusOpen,
	).Scan(&taskTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Задача уже не открыта",
				zap.Int64("task_id", quote.TaskID),
				zap.Int64("quote_id", quoteID))
			return nil, nil, repo.ErrStateConflict
		}
		logger.Error("Repository: Не удалось заблокировать задачу", err)
		return nil, nil, fmt.Errorf("блокировка задачи: %w", err)
	}

	// отклоняем остальные квоты, каждому отклонённому хелперу — уведомление
	rows, err := tx.Query(ctx,
		`UPDATE quotes SET status = $1 WHERE task_id = $2 AND id <> $3 RETURNING helper_id`,
		models.QuoteDeclined, quote.TaskID, quoteID)
	if err != nil {
		logger.Error("Repository: Не удалось отклонить квоты", err)
		return nil, nil, fmt.Errorf("отклонение квот: %w", err)
	}

	declinedHelpers := []int64{}
	for rows.Next() {
		var helperID int64
		if err := rows.Scan(&helperID); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("сканирование helper_id: %w", err)
		}
		declinedHelpers = append(declinedHelpers, helperID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	for _, helperID := range declinedHelpers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO notifications (user_id, message) VALUES ($1, $2)`,
			helperID, models.QuoteDeclinedMessage(taskTitle),
		); err != nil {
			logger.Error("Repository: Не удалось создать уведомление об отклонении", err)
			return nil, nil, fmt.Errorf("уведомление об отклонении: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE quotes SET status = $1 WHERE id = $2`,
		models.QuoteAccepted, quoteID,
	); err != nil {
		logger.Error("Repository: Не удалось принять квоту", err)
		return nil, nil, fmt.Errorf("принятие квоты: %w", err)
	}
	quote.Status = models.QuoteAccepted

	task, err := scanTask(tx.QueryRow(ctx,
		`UPDATE tasks
				SET status = $1,
					helper_id = $2,
					charges = $3,
					hours = $4,
					updated_at = NOW()
				WHERE id = $5
				RETURNING `+taskColumns,
		models.StatusAccepted, quote.HelperID, quote.Charges, quote.Hours, quote.TaskID))
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err)
		return nil, nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO notifications (user_id, message) VALUES ($1, $2)`,
		quote.HelperID, models.QuoteAcceptedMessage(taskTitle),
	); err != nil {
		logger.Error("Repository: Не удалось создать уведомление о назначении", err)
		return nil, nil, fmt.Errorf("уведомление о назначении: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить принятие квоты", err)
		return nil, nil, fmt.Errorf("коммит принятия квоты: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return task, quote, nil
}

func (s *Storage) getQuotes(ctx context.Context, query string, args ...any) ([]*models.Quote, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить квоты", err)
		return nil, fmt.Errorf("получение квот: %w", err)
	}
	defer rows.Close()

	quotes := []*models.Quote{}
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования квоты", zap.Error(err))
			continue
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return quotes, nil
}
