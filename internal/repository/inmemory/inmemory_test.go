package inmemory_test

import (
	"context"
	"sync"
	"testing"

	"waveBackend/internal/models"
	"waveBackend/internal/repository"
	"waveBackend/internal/repository/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_New(t *testing.T) {
	storage := inmemory.New()
	assert.NotNil(t, storage)
}

func TestStorage_HealthCheck(t *testing.T) {
	storage := inmemory.New()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

func seedUser(t *testing.T, storage *inmemory.Storage, name, email string) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: email, PasswordHash: "x", Role: "user"}
	require.NoError(t, storage.CreateUser(context.Background(), user))
	return user
}

func seedTask(t *testing.T, storage *inmemory.Storage, posterID int64, title string) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		Description: "d",
		Category:    "c",
		Status:      models.StatusOpen,
		Latitude:    55.75,
		Longitude:   37.62,
		PosterID:    posterID,
	}
	require.NoError(t, storage.CreateTask(context.Background(), task))
	return task
}

func seedQuote(t *testing.T, storage *inmemory.Storage, taskID, helperID int64, charges float64) *models.Quote {
	t.Helper()
	quote := &models.Quote{
		TaskID:   taskID,
		HelperID: helperID,
		Charges:  charges,
		Hours:    2,
		Mobile:   "+70000000000",
		Status:   models.QuotePending,
	}
	require.NoError(t, storage.ReplaceQuote(context.Background(), quote))
	return quote
}

func TestStorage_CreateUser_UniqueFields(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	seedUser(t, storage, "first", "first@test.local")

	err := storage.CreateUser(ctx, &models.User{Username: "other", Email: "first@test.local"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = storage.CreateUser(ctx, &models.User{Username: "first", Email: "fresh@test.local"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestStorage_GetTaskByID_NotFound(t *testing.T) {
	storage := inmemory.New()
	_, err := storage.GetTaskByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// ReplaceQuote держит не больше одной квоты на пару задача+хелпер
func TestStorage_ReplaceQuote(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	helper := seedUser(t, storage, "helper", "helper@test.local")
	task := seedTask(t, storage, poster.ID, "Задача")

	seedQuote(t, storage, task.ID, helper.ID, 500)
	seedQuote(t, storage, task.ID, helper.ID, 700)

	quotes, err := storage.GetQuotesByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, 700.0, quotes[0].Charges)
}

func TestStorage_ReplaceQuote_TaskMissingOrClosed(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	helper := seedUser(t, storage, "helper", "helper@test.local")

	err := storage.ReplaceQuote(ctx, &models.Quote{TaskID: 99, HelperID: helper.ID})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	task := seedTask(t, storage, poster.ID, "Задача")
	quote := seedQuote(t, storage, task.ID, helper.ID, 500)
	_, _, err = storage.AcceptQuote(ctx, quote.ID)
	require.NoError(t, err)

	err = storage.ReplaceQuote(ctx, &models.Quote{TaskID: task.ID, HelperID: poster.ID})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStorage_AcceptQuote_Transition(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	winner := seedUser(t, storage, "winner", "winner@test.local")
	loser := seedUser(t, storage, "loser", "loser@test.local")
	task := seedTask(t, storage, poster.ID, "Покрасить забор")

	winnerQuote := seedQuote(t, storage, task.ID, winner.ID, 500)
	seedQuote(t, storage, task.ID, loser.ID, 400)

	updated, accepted, err := storage.AcceptQuote(ctx, winnerQuote.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, updated.Status)
	require.NotNil(t, updated.HelperID)
	assert.Equal(t, winner.ID, *updated.HelperID)
	assert.Equal(t, models.QuoteAccepted, accepted.Status)
	require.NotNil(t, updated.UpdatedAt)

	quotes, err := storage.GetQuotesByTask(ctx, task.ID)
	require.NoError(t, err)
	for _, q := range quotes {
		if q.ID != winnerQuote.ID {
			assert.Equal(t, models.QuoteDeclined, q.Status)
		}
	}

	winnerNotes, err := storage.GetNotificationsByUser(ctx, winner.ID)
	require.NoError(t, err)
	require.Len(t, winnerNotes, 1)
	assert.Equal(t, models.QuoteAcceptedMessage(task.Title), winnerNotes[0].Message)

	loserNotes, err := storage.GetNotificationsByUser(ctx, loser.ID)
	require.NoError(t, err)
	require.Len(t, loserNotes, 1)
	assert.Equal(t, models.QuoteDeclinedMessage(task.Title), loserNotes[0].Message)
}

// при гонке нескольких принятий выигрывает ровно одно
func TestStorage_AcceptQuote_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	task := seedTask(t, storage, poster.ID, "Задача")

	const helpers = 10
	quoteIDs := make([]int64, 0, helpers)
	for i := 0; i < helpers; i++ {
		helper := seedUser(t, storage, "helper"+string(rune('a'+i)), "h"+string(rune('a'+i))+"@test.local")
		quote := seedQuote(t, storage, task.ID, helper.ID, float64(100+i))
		quoteIDs = append(quoteIDs, quote.ID)
	}

	var wg sync.WaitGroup
	results := make(chan error, helpers)
	for _, id := range quoteIDs {
		wg.Add(1)
		go func(quoteID int64) {
			defer wg.Done()
			_, _, err := storage.AcceptQuote(ctx, quoteID)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	accepted, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case err == repository.ErrStateConflict:
			conflicts++
		default:
			t.Fatalf("неожиданная ошибка: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, helpers-1, conflicts)
}

func TestStorage_DeleteTaskCascade(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	helper := seedUser(t, storage, "helper", "helper@test.local")
	task := seedTask(t, storage, poster.ID, "Задача")
	seedQuote(t, storage, task.ID, helper.ID, 500)

	require.NoError(t, storage.DeleteTaskCascade(ctx, task.ID))

	_, err := storage.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	quotes, err := storage.GetQuotesByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, quotes)

	assert.ErrorIs(t, storage.DeleteTaskCascade(ctx, task.ID), repository.ErrNotFound)
}

func TestStorage_CreateRating_Duplicate(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	helper := seedUser(t, storage, "helper", "helper@test.local")
	task := seedTask(t, storage, poster.ID, "Задача")

	rating := &models.Rating{TaskID: task.ID, RaterID: poster.ID, RateeID: helper.ID, Score: 5}
	require.NoError(t, storage.CreateRating(ctx, rating))

	again := &models.Rating{TaskID: task.ID, RaterID: poster.ID, RateeID: helper.ID, Score: 3}
	assert.ErrorIs(t, storage.CreateRating(ctx, again), repository.ErrDuplicate)

	// встречная оценка — другая пара, она проходит
	reverse := &models.Rating{TaskID: task.ID, RaterID: helper.ID, RateeID: poster.ID, Score: 4}
	assert.NoError(t, storage.CreateRating(ctx, reverse))
}

func TestStorage_Notifications_OrderAndRead(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	user := seedUser(t, storage, "user", "user@test.local")

	first := &models.Notification{UserID: user.ID, Message: "первое"}
	second := &models.Notification{UserID: user.ID, Message: "второе"}
	require.NoError(t, storage.CreateNotification(ctx, first))
	require.NoError(t, storage.CreateNotification(ctx, second))

	notes, err := storage.GetNotificationsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "второе", notes[0].Message, "свежие уведомления идут первыми")

	require.NoError(t, storage.MarkNotificationRead(ctx, user.ID, first.ID))
	notes, err = storage.GetNotificationsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, notes[1].IsRead)

	// чужое уведомление пометить нельзя
	other := seedUser(t, storage, "other", "other@test.local")
	assert.ErrorIs(t, storage.MarkNotificationRead(ctx, other.ID, second.ID), repository.ErrNotFound)
}

func TestStorage_GetTasksByPoster_EagerLoads(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	poster := seedUser(t, storage, "poster", "poster@test.local")
	helper := seedUser(t, storage, "helper", "helper@test.local")
	task := seedTask(t, storage, poster.ID, "Задача")
	seedQuote(t, storage, task.ID, helper.ID, 500)

	tasks, err := storage.GetTasksByPoster(ctx, poster.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Quotes, 1)
	assert.Equal(t, helper.ID, tasks[0].Quotes[0].HelperID)
}
