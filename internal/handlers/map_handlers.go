package handlers

import (
	"net/http"
	"strconv"
	"time"

	"waveBackend/internal/logger"
	"waveBackend/internal/middleware"
	"waveBackend/internal/service"

	"go.uber.org/zap"
)

const defaultRadiusKm = 5.0

type MapHandler struct {
	ProximityService service.ProximityService
}

func NewMapHandler(proximityService service.ProximityService) MapHandler {
	return MapHandler{
		ProximityService: proximityService,
	}
}

// NearbyTasks — открытые задачи в радиусе от сохранённой геопозиции пользователя.
func (h *MapHandler) NearbyTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	radius := defaultRadiusKm
	if raw := r.URL.Query().Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {

			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "radius"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "не удалось получить значение radius")
			return
		}
		radius = parsed
	}

	logger.Info("HTTP: Вызов сервиса задач поблизости")

	userID := middleware.GetUserID(r.Context())
	tasks, err := h.ProximityService.NearbyTasks(r.Context(), userID, radius)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задачи поблизости получены",
		zap.Int("count", len(tasks)),
		zap.Float64("radius_km", radius),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", tasks))
}
