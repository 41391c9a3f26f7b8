package service

import (
	"context"
	"waveBackend/internal/models"
)

type UserRepository interface {
	CreateUser(context.Context, *models.User) error
	GetUserByID(context.Context, int64) (*models.User, error)
	GetUserByEmail(context.Context, string) (*models.User, error)
	GetUserByUsername(context.Context, string) (*models.User, error)
	GetUsers(context.Context) ([]*models.User, error)
	UpdateUserLocation(ctx context.Context, id int64, lat, lon float64) error
	SetUserImage(ctx context.Context, id int64, url string) error
}

type TaskRepository interface {
	CreateTask(context.Context, *models.Task) error
	GetTaskByID(context.Context, int64) (*models.Task, error)
	GetOpenTasks(context.Context) ([]*models.Task, error)
	// GetTasksByPoster подгружает квоты и рейтинги задач
	GetTasksByPoster(context.Context, int64) ([]*models.Task, error)
	GetTasksByHelper(context.Context, int64) ([]*models.Task, error)
	GetCompletedTasksByHelper(context.Context, int64) ([]*models.Task, error)
	GetAllTasks(context.Context) ([]*models.Task, error)
	CompleteTask(ctx context.Context, id int64) error
	// DeleteTaskCascade удаляет квоты, рейтинги и саму задачу одной транзакцией
	DeleteTaskCascade(ctx context.Context, id int64) error
	SetTaskImage(ctx context.Context, id int64, url string) error
	CountCompletedByHelper(context.Context, int64) (int, error)
	CountCompletedByPoster(context.Context, int64) (int, error)
}

type QuoteRepository interface {
	// ReplaceQuote атомарно заменяет предыдущую квоту хелпера по этой задаче;
	// возвращает repository.ErrNotFound, если задача не существует или не open
	ReplaceQuote(context.Context, *models.Quote) error
	GetQuoteByID(context.Context, int64) (*models.Quote, error)
	GetQuotesByTask(context.Context, int64) ([]*models.Quote, error)
	// AcceptQuote одной транзакцией отклоняет остальные квоты, принимает выбранную,
	// переводит задачу в accepted и создаёт уведомления участникам
	AcceptQuote(ctx context.Context, quoteID int64) (*models.Task, *models.Quote, error)
}

type RatingRepository interface {
	CreateRating(context.Context, *models.Rating) error
	RatingExists(ctx context.Context, taskID, raterID, rateeID int64) (bool, error)
	GetRatingsByRatee(context.Context, int64) ([]*models.Rating, error)
}

type NotificationRepository interface {
	CreateNotification(context.Context, *models.Notification) error
	// GetNotificationsByUser — свежие сверху
	GetNotificationsByUser(context.Context, int64) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) error
}

// Repository — полное хранилище; реализации: postgres и inmemory
type Repository interface {
	UserRepository
	TaskRepository
	QuoteRepository
	RatingRepository
	NotificationRepository
	HealthCheck(context.Context) error
}
