package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	"waveBackend/internal/repository"

	"go.uber.org/zap"
)

type RatingService struct {
	ratings RatingRepository
	tasks   TaskRepository
	users   UserRepository
}

func NewRatingService(ratings RatingRepository, tasks TaskRepository, users UserRepository) RatingService {
	return RatingService{
		ratings: ratings,
		tasks:   tasks,
		users:   users,
	}
}

type SubmitRatingInput struct {
	TaskID  int64
	RateeID int64
	Score   int
	Comment string
}

// SubmitRating — оценка второго участника завершённой задачи.
// Проверки идут строго по порядку, первая нарушенная и возвращается;
// при любой ошибке ничего не записывается.
func (s *RatingService) SubmitRating(ctx context.Context, raterID int64, in SubmitRatingInput) (*models.Rating, error) {
	switch {
	case in.TaskID == 0:
		return nil, NewValidationError("task_id", "обязательное поле")
	case in.RateeID == 0:
		return nil, NewValidationError("ratee_id", "обязательное поле")
	case in.Score == 0:
		return nil, NewValidationError("score", "обязательное поле")
	}

	if in.Score < 1 || in.Score > 5 {
		return nil, NewValidationError("score", "должен быть от 1 до 5")
	}

	task, err := s.tasks.GetTaskByID(ctx, in.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("задача", in.TaskID)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if task.Status != models.StatusCompleted {
		return nil, NewInvalidState("оценивать можно только завершённые задачи",
			ToDetail("status", task.Status))
	}

	if !task.IsParticipant(raterID) {
		return nil, NewForbidden("вы не участвовали в этой задаче")
	}

	if in.RateeID == raterID || !task.IsParticipant(in.RateeID) {
		return nil, NewValidationError("ratee_id", "оценить можно только второго участника")
	}

	exists, err := s.ratings.RatingExists(ctx, in.TaskID, raterID, in.RateeID)
	if err != nil {
		return nil, fmt.Errorf("проверка дубликата: %w", err)
	}
	if exists {
		return nil, NewDuplicate("оценка",
			ToDetail("task_id", in.TaskID),
			ToDetail("ratee_id", in.RateeID))
	}

	rating := &models.Rating{
		TaskID:  in.TaskID,
		RaterID: raterID,
		RateeID: in.RateeID,
		Score:   in.Score,
		Comment: in.Comment,
	}

	if err := s.ratings.CreateRating(ctx, rating); err != nil {
		// гонка двух одинаковых оценок упирается в уникальный индекс
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewDuplicate("оценка", ToDetail("task_id", in.TaskID))
		}
		return nil, fmt.Errorf("сохранение оценки: %w", err)
	}

	logger.Info("Service: Оценка сохранена",
		zap.Int64("task_id", in.TaskID),
		zap.Int64("rater_id", raterID),
		zap.Int64("ratee_id", in.RateeID),
		zap.Int("score", in.Score))
	return rating, nil
}

type ProfileStats struct {
	User                   *models.User     `json:"user"`
	CompletedTasksAsHelper int              `json:"completed_tasks_as_helper"`
	CompletedTasksAsSeeker int              `json:"completed_tasks_as_seeker"`
	TotalRatings           int              `json:"total_ratings"`
	AverageRating          float64          `json:"average_rating"`
	Ratings                []*models.Rating `json:"ratings"`
}

// GetProfileStats собирает публичный профиль: счётчики завершённых задач
// и полученные оценки. Среднее округляется до одного знака, 0 без оценок.
func (s *RatingService) GetProfileStats(ctx context.Context, userID int64) (*ProfileStats, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	asHelper, err := s.tasks.CountCompletedByHelper(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("подсчёт задач хелпера: %w", err)
	}

	asSeeker, err := s.tasks.CountCompletedByPoster(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("подсчёт задач постера: %w", err)
	}

	ratings, err := s.ratings.GetRatingsByRatee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение оценок: %w", err)
	}

	var avg float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Score
		}
		avg = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	}

	return &ProfileStats{
		User:                   user,
		CompletedTasksAsHelper: asHelper,
		CompletedTasksAsSeeker: asSeeker,
		TotalRatings:           len(ratings),
		AverageRating:          avg,
		Ratings:                ratings,
	}, nil
}
