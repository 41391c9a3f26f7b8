package handlers

import (
	"errors"
	"net/http"

	"waveBackend/internal/logger"
	"waveBackend/internal/service"

	"go.uber.org/zap"
)

// mapBusinessErrorToHTTP переводит код бизнес-ошибки в HTTP-статус
func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeInvalidState, service.CodeDuplicate:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func handleServiceError(w http.ResponseWriter, err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return
	}

	logger.Error("HTTP: Ошибка Service", err)
	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}
