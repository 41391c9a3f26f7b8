package inmemory

import (
	"context"
	"sort"
	"time"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"
)

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repo.ErrDuplicate
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Storage) GetUsers(ctx context.Context) ([]*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	users := []*models.User{}
	for _, u := range s.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Storage) UpdateUserLocation(ctx context.Context, id int64, lat, lon float64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	user.Latitude = &lat
	user.Longitude = &lon
	return nil
}

func (s *Storage) SetUserImage(ctx context.Context, id int64, url string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	user.ImageURL = &url
	return nil
}
