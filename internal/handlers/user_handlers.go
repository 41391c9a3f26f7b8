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

const maxUploadBytes = 16 << 20

type UserHandler struct {
	UserService   service.UserService
	RatingService service.RatingService
}

func NewUserHandler(userService service.UserService, ratingService service.RatingService) UserHandler {
	return UserHandler{
		UserService:   userService,
		RatingService: ratingService,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := middleware.GetUserID(r.Context())
	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("user", user))
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Пользователи получены",
		zap.Int("count", len(users)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("users", users))
}

func (h *UserHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
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

	var request dto.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.UserService.UpdateLocation(r.Context(), userID, request.Latitude, request.Longitude)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Геопозиция обновлена",
		zap.Int64("user_id", userID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("user", user))
}

// GetProfile — публичный профиль со статистикой по завершённым задачам и рейтингом.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := parseIDParam(w, r, "userId")
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса профиля")

	stats, err := h.RatingService.GetProfileStats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Профиль получен",
		zap.Int64("user_id", userID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, stats)
}

func (h *UserHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	data, filename, ok := readUploadedFile(w, r, "image", maxUploadBytes+1)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	url, err := h.UserService.UploadProfileImage(r.Context(), userID, data, filename)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Фото профиля загружено",
		zap.Int64("user_id", userID),
		zap.String("url", url),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("image_url", url))
}
