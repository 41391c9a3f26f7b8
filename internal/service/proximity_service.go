package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"waveBackend/internal/geo"
	"waveBackend/internal/logger"
	"waveBackend/internal/repository"

	"go.uber.org/zap"
)

const MinRadiusKm = 0.1
const MaxRadiusKm = 50.0

type ProximityService struct {
	tasks TaskRepository
	users UserRepository
}

func NewProximityService(tasks TaskRepository, users UserRepository) ProximityService {
	return ProximityService{
		tasks: tasks,
		users: users,
	}
}

type NearbyTask struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Reward     string  `json:"reward"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

// NearbyTasks — открытые задачи в радиусе от сохранённой точки пользователя.
// Линейный проход по всем открытым задачам; на наших объёмах этого хватает,
// пространственный индекс не заводим.
func (s *ProximityService) NearbyTasks(ctx context.Context, userID int64, radiusKm float64) ([]NearbyTask, error) {
	if radiusKm < MinRadiusKm || radiusKm > MaxRadiusKm {
		return nil, NewValidationError("radius", "должен быть от 0.1 до 50 км")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if !user.HasLocation() {
		return nil, NewValidationError("location", "сначала сохраните свою геопозицию")
	}

	tasks, err := s.tasks.GetOpenTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение открытых задач: %w", err)
	}

	nearby := []NearbyTask{}
	for _, t := range tasks {
		dist := geo.Haversine(*user.Latitude, *user.Longitude, t.Latitude, t.Longitude)
		if dist <= radiusKm {
			nearby = append(nearby, NearbyTask{
				ID:         t.ID,
				Title:      t.Title,
				Category:   t.Category,
				Reward:     t.Reward,
				Latitude:   t.Latitude,
				Longitude:  t.Longitude,
				DistanceKm: math.Round(dist*100) / 100,
			})
		}
	}

	logger.Info("Service: Поиск задач рядом",
		zap.Int64("user_id", userID),
		zap.Float64("radius_km", radiusKm),
		zap.Int("scanned", len(tasks)),
		zap.Int("matched", len(nearby)))
	return nearby, nil
}
