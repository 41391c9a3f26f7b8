package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"waveBackend/internal/handlers/dto"
	"waveBackend/internal/logger"
	"waveBackend/internal/middleware"
	"waveBackend/internal/service"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {

		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задач")

	posterID := middleware.GetUserID(r.Context())
	task, err := h.TaskService.CreateTask(r.Context(), posterID, service.CreateTaskInput{
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		Reward:      request.Reward,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", task))
}

func (h *TaskHandler) ListOpenTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.TaskService.ListOpenTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Открытые задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", tasks))
}

// ListMyTasks отдаёт задачи автора вместе с квотами и оценками.
func (h *TaskHandler) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	posterID := middleware.GetUserID(r.Context())
	tasks, err := h.TaskService.ListMyTasks(r.Context(), posterID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("tasks", tasks))
}

func (h *TaskHandler) ListAssignedTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	helperID := middleware.GetUserID(r.Context())
	tasks, err := h.TaskService.ListAssignedTasks(r.Context(), helperID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("tasks", tasks))
}

func (h *TaskHandler) ListCompletedTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := parseIDParam(w, r, "userId")
	if !ok {
		return
	}

	tasks, err := h.TaskService.ListCompletedTasks(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("tasks", tasks))
}

func (h *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.TaskService.ListAllTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Все задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", tasks))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса удаления задачи")

	actorID := middleware.GetUserID(r.Context())
	if err := h.TaskService.DeleteTask(r.Context(), actorID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", taskID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("message", "task deleted"))
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса завершения задачи")

	actorID := middleware.GetUserID(r.Context())
	task, err := h.TaskService.CompleteTask(r.Context(), actorID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача завершена",
		zap.Int64("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

func (h *TaskHandler) UploadTaskImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	data, filename, ok := readUploadedFile(w, r, "image", maxUploadBytes+1)
	if !ok {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	url, err := h.TaskService.UploadTaskImage(r.Context(), actorID, taskID, data, filename)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Картинка задачи загружена",
		zap.Int64("task_id", taskID),
		zap.String("url", url),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("image_url", url))
}
