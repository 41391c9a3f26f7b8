package inmemory

import (
	"context"
	"sort"
	"time"
	"waveBackend/internal/models"
	repo "waveBackend/internal/repository"
)

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.nextTaskID++
	task.ID = s.nextTaskID
	task.CreatedAt = time.Now()

	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *Storage) GetOpenTasks(ctx context.Context) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.collect(func(t *models.Task) bool {
		return t.Status == models.StatusOpen
	}), nil
}

// GetTasksByPoster отдаёт задачи постера вместе с их квотами и рейтингами
func (s *Storage) GetTasksByPoster(ctx context.Context, posterID int64) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := s.collect(func(t *models.Task) bool {
		return t.PosterID == posterID
	})

	for _, t := range tasks {
		t.Quotes = []*models.Quote{}
		t.Ratings = []*models.Rating{}
		for _, q := range s.quotes {
			if q.TaskID == t.ID {
				copied := *q
				t.Quotes = append(t.Quotes, &copied)
			}
		}
		for _, r := range s.ratings {
			if r.TaskID == t.ID {
				copied := *r
				t.Ratings = append(t.Ratings, &copied)
			}
		}
		sort.Slice(t.Quotes, func(i, j int) bool { return t.Quotes[i].ID < t.Quotes[j].ID })
		sort.Slice(t.Ratings, func(i, j int) bool { return t.Ratings[i].ID < t.Ratings[j].ID })
	}
	return tasks, nil
}

func (s *Storage) GetTasksByHelper(ctx context.Context, helperID int64) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.collect(func(t *models.Task) bool {
		return t.HelperID != nil && *t.HelperID == helperID
	}), nil
}

func (s *Storage) GetCompletedTasksByHelper(ctx context.Context, helperID int64) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.collect(func(t *models.Task) bool {
		return t.Status == models.StatusCompleted && t.HelperID != nil && *t.HelperID == helperID
	}), nil
}

func (s *Storage) GetAllTasks(ctx context.Context) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.collect(func(t *models.Task) bool { return true }), nil
}

func (s *Storage) CompleteTask(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	task.Status = models.StatusCompleted
	task.UpdatedAt = &now
	return nil
}

// DeleteTaskCascade — квоты, рейтинги и задача уходят под одним мьютексом
func (s *Storage) DeleteTaskCascade(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repo.ErrNotFound
	}

	for qid, q := range s.quotes {
		if q.TaskID == id {
			delete(s.quotes, qid)
		}
	}
	for rid, r := range s.ratings {
		if r.TaskID == id {
			delete(s.ratings, rid)
		}
	}
	delete(s.tasks, id)
	return nil
}

func (s *Storage) SetTaskImage(ctx context.Context, id int64, url string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return repo.ErrNotFound
	}
	task.ImageURL = &url
	return nil
}

func (s *Storage) CountCompletedByHelper(ctx context.Context, userID int64) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.tasks {
		if t.Status == models.StatusCompleted && t.HelperID != nil && *t.HelperID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Storage) CountCompletedByPoster(ctx context.Context, userID int64) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.tasks {
		if t.Status == models.StatusCompleted && t.PosterID == userID {
			count++
		}
	}
	return count, nil
}

// collect возвращает копии подходящих задач в порядке создания.
// Вызывать только под мьютексом.
func (s *Storage) collect(match func(*models.Task) bool) []*models.Task {
	tasks := []*models.Task{}
	for _, t := range s.tasks {
		if match(t) {
			copied := *t
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}
