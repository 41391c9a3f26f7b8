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

type RatingHandler struct {
	RatingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) RatingHandler {
	return RatingHandler{
		RatingService: ratingService,
	}
}

func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
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

	var request dto.SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	in := service.SubmitRatingInput{Comment: request.Comment}
	if request.TaskID != nil {
		in.TaskID = *request.TaskID
	}
	if request.RateeID != nil {
		in.RateeID = *request.RateeID
	}
	if request.Score != nil {
		in.Score = *request.Score
	}

	logger.Info("HTTP: Вызов сервиса оценки")

	raterID := middleware.GetUserID(r.Context())
	rating, err := h.RatingService.SubmitRating(r.Context(), raterID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Оценка сохранена",
		zap.Int64("rating_id", rating.ID),
		zap.Int64("task_id", rating.TaskID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("rating", rating))
}
