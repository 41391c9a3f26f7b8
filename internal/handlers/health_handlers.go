package handlers

import (
	"context"
	"net/http"

	"waveBackend/internal/logger"
)

type HealthChecker interface {
	HealthCheck(context.Context) error
}

type HealthHandler struct {
	Checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) HealthHandler {
	return HealthHandler{Checker: checker}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.Checker.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
