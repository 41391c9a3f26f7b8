package service

import (
	"context"
	"errors"
	"fmt"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	"waveBackend/internal/repository"
	"waveBackend/internal/upload"

	"go.uber.org/zap"
)

// BlobStorage — внешнее файловое хранилище картинок
type BlobStorage interface {
	Store(data []byte, suggestedName string) (string, error)
}

type TaskService struct {
	repo  TaskRepository
	blobs BlobStorage
}

func NewTaskService(repo TaskRepository, blobs BlobStorage) TaskService {
	return TaskService{
		repo:  repo,
		blobs: blobs,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Latitude    *float64
	Longitude   *float64
	Reward      string
}

func (s *TaskService) CreateTask(ctx context.Context, posterID int64, in CreateTaskInput) (*models.Task, error) {
	switch {
	case in.Title == "":
		return nil, NewValidationError("title", "обязательное поле")
	case in.Description == "":
		return nil, NewValidationError("description", "обязательное поле")
	case in.Category == "":
		return nil, NewValidationError("category", "обязательное поле")
	case in.Latitude == nil:
		return nil, NewValidationError("latitude", "обязательное поле")
	case in.Longitude == nil:
		return nil, NewValidationError("longitude", "обязательное поле")
	}

	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Reward:      in.Reward,
		Status:      models.StatusOpen,
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		PosterID:    posterID,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.Int64("task_id", task.ID),
		zap.Int64("poster_id", posterID))
	return task, nil
}

func (s *TaskService) ListOpenTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.repo.GetOpenTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение открытых задач: %w", err)
	}
	return tasks, nil
}

// ListMyTasks — задачи постера вместе с квотами и рейтингами
func (s *TaskService) ListMyTasks(ctx context.Context, posterID int64) ([]*models.Task, error) {
	tasks, err := s.repo.GetTasksByPoster(ctx, posterID)
	if err != nil {
		return nil, fmt.Errorf("получение задач постера: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListAssignedTasks(ctx context.Context, helperID int64) ([]*models.Task, error) {
	tasks, err := s.repo.GetTasksByHelper(ctx, helperID)
	if err != nil {
		return nil, fmt.Errorf("получение назначенных задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListCompletedTasks(ctx context.Context, helperID int64) ([]*models.Task, error) {
	tasks, err := s.repo.GetCompletedTasksByHelper(ctx, helperID)
	if err != nil {
		return nil, fmt.Errorf("получение завершённых задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.repo.GetAllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение всех задач: %w", err)
	}
	return tasks, nil
}

// DeleteTask удаляет открытую задачу постера вместе с её квотами и рейтингами
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID int64) error {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("task_id", taskID))
			return NewNotFound("задача", taskID)
		}
		return fmt.Errorf("получение задачи: %w", err)
	}

	// чужая задача неотличима от несуществующей
	if task.PosterID != actorID {
		return NewNotFound("задача", taskID)
	}

	if task.Status != models.StatusOpen {
		return NewInvalidState("удалять можно только открытые задачи",
			ToDetail("status", task.Status))
	}

	if err := s.repo.DeleteTaskCascade(ctx, taskID); err != nil {
		return fmt.Errorf("каскадное удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена вместе с квотами и рейтингами",
		zap.Int64("task_id", taskID))
	return nil
}

// CompleteTask переводит задачу в completed. Политика намеренно мягкая:
// завершить может любой участник из любого статуса, как в исходном продукте.
func (s *TaskService) CompleteTask(ctx context.Context, actorID, taskID int64) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("задача", taskID)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if !task.IsParticipant(actorID) {
		return nil, NewForbidden("завершить задачу может только её участник")
	}

	if err := s.repo.CompleteTask(ctx, taskID); err != nil {
		return nil, fmt.Errorf("завершение задачи: %w", err)
	}

	task.Status = models.StatusCompleted
	logger.Info("Service: Задача завершена",
		zap.Int64("task_id", taskID),
		zap.Int64("actor_id", actorID))
	return task, nil
}

func (s *TaskService) UploadTaskImage(ctx context.Context, actorID, taskID int64, data []byte, filename string) (string, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewNotFound("задача", taskID)
		}
		return "", fmt.Errorf("получение задачи: %w", err)
	}

	if task.PosterID != actorID {
		return "", NewNotFound("задача", taskID)
	}

	url, err := s.blobs.Store(data, fmt.Sprintf("task_%d_%s", taskID, filename))
	if err != nil {
		if errors.Is(err, upload.ErrBadExtension) {
			return "", NewValidationError("image", "допустимы только PNG, JPG, JPEG и GIF")
		}
		if errors.Is(err, upload.ErrTooLarge) {
			return "", NewValidationError("image", "файл больше 16 МБ")
		}
		return "", fmt.Errorf("сохранение картинки: %w", err)
	}

	if err := s.repo.SetTaskImage(ctx, taskID, url); err != nil {
		return "", fmt.Errorf("обновление image_url: %w", err)
	}

	return url, nil
}
