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

const taskColumns = `id, title, description, category, reward, status, latitude, longitude,
				poster_id, helper_id, charges, hours, image_url, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Reward,
		&task.Status,
		&task.Latitude,
		&task.Longitude,
		&task.PosterID,
		&task.HelperID,
		&task.Charges,
		&task.Hours,
		&task.ImageURL,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(title, description, category, reward, status, latitude, longitude, poster_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Category,
		task.Reward,
		task.Status,
		task.Latitude,
		task.Longitude,
		task.PosterID,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return task, nil
}

func (s *Storage) GetOpenTasks(ctx context.Context) ([]*models.Task, error) {
	return s.getTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE status = $1 ORDER BY id`, models.StatusOpen)
}

func (s *Storage) GetTasksByHelper(ctx context.Context, helperID int64) ([]*models.Task, error) {
	return s.getTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE helper_id = $1 ORDER BY id`, helperID)
}

func (s *Storage) GetCompletedTasksByHelper(ctx context.Context, helperID int64) ([]*models.Task, error) {
	return s.getTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE helper_id = $1 AND status = $2 ORDER BY id`,
		helperID, models.StatusCompleted)
}

func (s *Storage) GetAllTasks(ctx context.Context) ([]*models.Task, error) {
	return s.getTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

// GetTasksByPoster дополнительно подтягивает квоты и рейтинги каждой задачи
func (s *Storage) GetTasksByPoster(ctx context.Context, posterID int64) ([]*models.Task, error) {
	tasks, err := s.getTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE poster_id = $1 ORDER BY id`, posterID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	byID := make(map[int64]*models.Task, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		t.Quotes = []*models.Quote{}
		t.Ratings = []*models.Rating{}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	quotes, err := s.getQuotes(ctx,
		`SELECT q.id, q.task_id, q.helper_id, u.username, q.charges, q.hours, q.mobile, q.status, q.created_at
				FROM quotes q
				JOIN users u ON u.id = q.helper_id
				WHERE q.task_id = ANY($1)
				ORDER BY q.id`, ids)
	if err != nil {
		return nil, err
	}
	for _, q := range quotes {
		byID[q.TaskID].Quotes = append(byID[q.TaskID].Quotes, q)
	}

	ratings, err := s.getRatings(ctx,
		`SELECT r.id, r.task_id, r.rater_id, r.ratee_id, rater.username, ratee.username,
				r.score, r.comment, r.created_at
				FROM ratings r
				JOIN users rater ON rater.id = r.rater_id
				JOIN users ratee ON ratee.id = r.ratee_id
				WHERE r.task_id = ANY($1)
				ORDER BY r.id`, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range ratings {
		byID[r.TaskID].Ratings = append(byID[r.TaskID].Ratings, r)
	}

	return tasks, nil
}

func (s *Storage) CompleteTask(ctx context.Context, id int64) error {
	query := `UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := s.pool.Exec(ctx, query, models.StatusCompleted, id)
	if err != nil {
		logger.Error("Repository: Не удалось завершить задачу", err)
		return fmt.Errorf("завершение задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DeleteTaskCascade удаляет квоты, рейтинги и задачу одной транзакцией
func (s *Storage) DeleteTaskCascade(ctx context.Context, id int64) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quotes WHERE task_id = $1`, id); err != nil {
		logger.Error("Repository: Не удалось удалить квоты задачи", err)
		return fmt.Errorf("удаление квот: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE task_id = $1`, id); err != nil {
		logger.Error("Repository: Не удалось удалить рейтинги задачи", err)
		return fmt.Errorf("удаление рейтингов: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить удаление", err)
		return fmt.Errorf("коммит удаления: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) SetTaskImage(ctx context.Context, id int64, url string) error {
	query := `UPDATE tasks SET image_url = $1, updated_at = NOW() WHERE id = $2`

	tag, err := s.pool.Exec(ctx, query, url, id)
	if err != nil {
		logger.Error("Repository: Не удалось обновить image_url задачи", err)
		return fmt.Errorf("обновление image_url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) CountCompletedByHelper(ctx context.Context, userID int64) (int, error) {
	return s.countTasks(ctx,
		`SELECT COUNT(*) FROM tasks WHERE helper_id = $1 AND status = $2`,
		userID, models.StatusCompleted)
}

func (s *Storage) CountCompletedByPoster(ctx context.Context, userID int64) (int, error) {
	return s.countTasks(ctx,
		`SELECT COUNT(*) FROM tasks WHERE poster_id = $1 AND status = $2`,
		userID, models.StatusCompleted)
}

func (s *Storage) countTasks(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return 0, fmt.Errorf("подсчёт задач: %w", err)
	}
	return count, nil
}

func (s *Storage) getTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}
