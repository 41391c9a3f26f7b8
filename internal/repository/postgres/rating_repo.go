package postgres

import (
	"context"
	"fmt"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const ratingSelect = `SELECT r.id, r.task_id, r.rater_id, r.ratee_id, rater.username, ratee.username,
				r.score, r.comment, r.created_at
				FROM ratings r
				JOIN users rater ON rater.id = r.rater_id
				JOIN users ratee ON ratee.id = r.ratee_id`

func scanRating(row pgx.Row) (*models.Rating, error) {
	rating := &models.Rating{}
	err := row.Scan(
		&rating.ID,
		&rating.TaskID,
		&rating.RaterID,
		&rating.RateeID,
		&rating.RaterName,
		&rating.RateeName,
		&rating.Score,
		&rating.Comment,
		&rating.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *Storage) CreateRating(ctx context.Context, rating *models.Rating) error {
	query := `INSERT INTO ratings (task_id, rater_id, ratee_id, score, comment)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		rating.TaskID,
		rating.RaterID,
		rating.RateeID,
		rating.Score,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)

	if err != nil {
		// уникальный индекс (task_id, rater_id, ratee_id) ловит гонку дубликатов
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось сохранить оценку", err)
		return fmt.Errorf("сохранение оценки: %w", err)
	}
	return nil
}

func (s *Storage) RatingExists(ctx context.Context, taskID, raterID, rateeID int64) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM ratings WHERE task_id = $1 AND rater_id = $2 AND ratee_id = $3)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, taskID, raterID, rateeID).Scan(&exists); err != nil {
		logger.Error("Repository: Не удалось проверить дубликат оценки", err)
		return false, fmt.Errorf("проверка дубликата: %w", err)
	}
	return exists, nil
}

func (s *Storage) GetRatingsByRatee(ctx context.Context, rateeID int64) ([]*models.Rating, error) {
	return s.getRatings(ctx, ratingSelect+` WHERE r.ratee_id = $1 ORDER BY r.id`, rateeID)
}

func (s *Storage) getRatings(ctx context.Context, query string, args ...any) ([]*models.Rating, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить оценки", err)
		return nil, fmt.Errorf("получение оценок: %w", err)
	}
	defer rows.Close()

	ratings := []*models.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования оценки", zap.Error(err))
			continue
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return ratings, nil
}
