package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"waveBackend/internal/auth"
	"waveBackend/internal/handlers"
	"waveBackend/internal/logger"
	"waveBackend/internal/middleware"
	"waveBackend/internal/repository/inmemory"
	"waveBackend/internal/service"
	"waveBackend/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

type apiEnv struct {
	server *httptest.Server
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	repo := inmemory.New()
	blobs, err := upload.New(t.TempDir(), "/uploads", 16)
	require.NoError(t, err)

	tokens := auth.NewJWTManager("test-secret", time.Hour)

	userService := service.NewUserService(repo, tokens, blobs, "admin@test.local")
	taskService := service.NewTaskService(repo, blobs)
	quoteService := service.NewQuoteService(repo, repo)
	ratingService := service.NewRatingService(repo, repo, repo)
	notificationService := service.NewNotificationService(repo)
	proximityService := service.NewProximityService(repo, repo)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, ratingService)
	taskHandler := handlers.NewTaskHandler(taskService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	mapHandler := handlers.NewMapHandler(proximityService)
	healthHandler := handlers.NewHealthHandler(repo)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/profile/{userId}", userHandler.GetProfile)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Get("/me", userHandler.Me)
			r.Put("/profile/location", userHandler.UpdateLocation)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListOpenTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Get("/mine", taskHandler.ListMyTasks)
				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", taskHandler.DeleteTask)
					r.Post("/complete", taskHandler.CompleteTask)
					r.Post("/quote", quoteHandler.SubmitQuote)
				})
			})

			r.Post("/quotes/{id}/accept", quoteHandler.AcceptQuote)
			r.Post("/rating", ratingHandler.SubmitRating)
			r.Get("/notifications", notificationHandler.ListNotifications)
			r.Post("/notifications/{id}/read", notificationHandler.MarkRead)
			r.Get("/map/tasks", mapHandler.NearbyTasks)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(&userService))
				r.Get("/users", userHandler.ListUsers)
			})
		})
	})
	r.Get("/health", healthHandler.HealthCheck)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &apiEnv{server: server}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	decoded := map[string]any{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (e *apiEnv) registerAndLogin(t *testing.T, name, email string) (string, int64) {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "secret123", "role": "user",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(float64)
	return token, int64(id)
}

func (e *apiEnv) createTask(t *testing.T, token, title string) int64 {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title": title, "description": "d", "category": "c",
		"latitude": 55.75, "longitude": 37.62, "reward": "500",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task, _ := body["task"].(map[string]any)
	require.NotNil(t, task)
	id, _ := task["id"].(float64)
	return int64(id)
}

func TestAPI_Health(t *testing.T) {
	env := newAPIEnv(t)
	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_AuthRequired(t *testing.T) {
	env := newAPIEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/tasks", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_RegisterValidation(t *testing.T) {
	env := newAPIEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "x", "email": "x@test.local", "password": "pw", "role": "manager",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.CodeValidation, body["error"])
}

func TestAPI_LoginWrongPassword(t *testing.T) {
	env := newAPIEnv(t)
	env.registerAndLogin(t, "user", "user@test.local")

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "user@test.local", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, service.CodeUnauthorized, body["error"])
}

func TestAPI_QuoteLifecycle(t *testing.T) {
	env := newAPIEnv(t)
	posterToken, _ := env.registerAndLogin(t, "poster", "poster@test.local")
	helperToken, helperID := env.registerAndLogin(t, "helper", "helper@test.local")

	taskID := env.createTask(t, posterToken, "Помыть окна")

	resp, body := env.do(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/quote", taskID), helperToken, map[string]any{
		"charges": 500, "hours": 2, "mobile": "+70000000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	quote, _ := body["quote"].(map[string]any)
	require.NotNil(t, quote)
	quoteID := int64(quote["id"].(float64))

	// принять может только автор задачи
	resp, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/quotes/%d/accept", quoteID), helperToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, service.CodeForbidden, body["error"])

	resp, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/quotes/%d/accept", quoteID), posterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	task, _ := body["task"].(map[string]any)
	require.NotNil(t, task)
	assert.Equal(t, "accepted", task["status"])
	assert.Equal(t, float64(helperID), task["helper_id"])

	// хелперу пришло уведомление о назначении
	resp, body = env.do(t, http.MethodGet, "/api/notifications", helperToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notes, _ := body["notifications"].([]any)
	require.Len(t, notes, 1)

	note := notes[0].(map[string]any)
	noteID := int64(note["id"].(float64))
	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", noteID), helperToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// повторное принятие — конфликт состояния
	resp, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/quotes/%d/accept", quoteID), posterToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, service.CodeInvalidState, body["error"])
}

func TestAPI_RatingFlow(t *testing.T) {
	env := newAPIEnv(t)
	posterToken, _ := env.registerAndLogin(t, "poster", "poster@test.local")
	helperToken, helperID := env.registerAndLogin(t, "helper", "helper@test.local")

	taskID := env.createTask(t, posterToken, "Задача")

	resp, body := env.do(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/quote", taskID), helperToken, map[string]any{
		"charges": 500, "hours": 2, "mobile": "+70000000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	quote := body["quote"].(map[string]any)
	quoteID := int64(quote["id"].(float64))

	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/quotes/%d/accept", quoteID), posterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", taskID), posterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/rating", posterToken, map[string]any{
		"task_id": taskID, "ratee_id": helperID, "score": 5, "comment": "отлично",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// дубль той же оценки — 409
	resp, body = env.do(t, http.MethodPost, "/api/rating", posterToken, map[string]any{
		"task_id": taskID, "ratee_id": helperID, "score": 3,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, service.CodeDuplicate, body["error"])

	// статистика в публичном профиле
	resp, profile := env.do(t, http.MethodGet, fmt.Sprintf("/api/profile/%d", helperID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), profile["total_ratings"])
	assert.Equal(t, float64(5), profile["average_rating"])
	assert.Equal(t, float64(1), profile["completed_tasks_as_helper"])
}

func TestAPI_DeleteForeignTask(t *testing.T) {
	env := newAPIEnv(t)
	posterToken, _ := env.registerAndLogin(t, "poster", "poster@test.local")
	strangerToken, _ := env.registerAndLogin(t, "stranger", "stranger@test.local")

	taskID := env.createTask(t, posterToken, "Задача")

	resp, body := env.do(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.CodeNotFound, body["error"])

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), posterToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_NearbyTasks(t *testing.T) {
	env := newAPIEnv(t)
	posterToken, _ := env.registerAndLogin(t, "poster", "poster@test.local")
	seekerToken, _ := env.registerAndLogin(t, "seeker", "seeker@test.local")

	env.createTask(t, posterToken, "Рядом")

	// без сохранённой геопозиции — 400
	resp, _ := env.do(t, http.MethodGet, "/api/map/tasks", seekerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/profile/location", seekerToken, map[string]any{
		"latitude": 55.75, "longitude": 37.62,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/map/tasks?radius=10", seekerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks, _ := body["tasks"].([]any)
	assert.Len(t, tasks, 1)

	// радиус за пределами допустимого
	resp, _ = env.do(t, http.MethodGet, "/api/map/tasks?radius=100", seekerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/map/tasks?radius=abc", seekerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AdminOnly(t *testing.T) {
	env := newAPIEnv(t)
	userToken, _ := env.registerAndLogin(t, "plain", "plain@test.local")
	adminToken, _ := env.registerAndLogin(t, "boss", "admin@test.local")

	resp, _ := env.do(t, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users, _ := body["users"].([]any)
	assert.Len(t, users, 2)
}
