package inmemory

import (
	"context"
	"sort"
	"time"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"
)

func (s *Storage) CreateRating(ctx context.Context, rating *models.Rating) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, r := range s.ratings {
		if r.TaskID == rating.TaskID && r.RaterID == rating.RaterID && r.RateeID == rating.RateeID {
			return repo.ErrDuplicate
		}
	}

	s.nextRatingID++
	rating.ID = s.nextRatingID
	rating.CreatedAt = time.Now()

	stored := *rating
	s.ratings[rating.ID] = &stored
	return nil
}

func (s *Storage) RatingExists(ctx context.Context, taskID, raterID, rateeID int64) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, r := range s.ratings {
		if r.TaskID == taskID && r.RaterID == raterID && r.RateeID == rateeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) GetRatingsByRatee(ctx context.Context, rateeID int64) ([]*models.Rating, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ratings := []*models.Rating{}
	for _, r := range s.ratings {
		if r.RateeID == rateeID {
			copied := *r
			ratings = append(ratings, &copied)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}
