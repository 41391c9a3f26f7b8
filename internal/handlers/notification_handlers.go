package handlers

import (
	"net/http"

	"waveBackend/internal/logger"
	"waveBackend/internal/middleware"
	"waveBackend/internal/service"
)

type NotificationHandler struct {
	NotificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) NotificationHandler {
	return NotificationHandler{
		NotificationService: notificationService,
	}
}

// ListNotifications — уведомления пользователя, новые первыми.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := middleware.GetUserID(r.Context())
	notifications, err := h.NotificationService.ListNotifications(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("notifications", notifications))
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	notificationID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.NotificationService.MarkRead(r.Context(), userID, notificationID); err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("message", "notification read"))
}
