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

type QuoteHandler struct {
	QuoteService service.QuoteService
}

func NewQuoteHandler(quoteService service.QuoteService) QuoteHandler {
	return QuoteHandler{
		QuoteService: quoteService,
	}
}

// SubmitQuote — подача квоты; повторная подача того же хелпера заменяет прежнюю.
func (h *QuoteHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {

		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.SubmitQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса подачи квоты")

	helperID := middleware.GetUserID(r.Context())
	quote, err := h.QuoteService.SubmitQuote(r.Context(), helperID, taskID, service.SubmitQuoteInput{
		Charges: request.Charges,
		Hours:   request.Hours,
		Mobile:  request.Mobile,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Квота подана",
		zap.Int64("quote_id", quote.ID),
		zap.Int64("task_id", taskID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("quote", quote))
}

func (h *QuoteHandler) ListQuotesByTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	quotes, err := h.QuoteService.ListQuotesByTask(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("quotes", quotes))
}

// AcceptQuote — принятие квоты автором задачи. Остальные квоты отклоняются,
// их авторы получают уведомления, всё в одной транзакции.
func (h *QuoteHandler) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	quoteID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса принятия квоты")

	actorID := middleware.GetUserID(r.Context())
	task, quote, err := h.QuoteService.AcceptQuote(r.Context(), actorID, quoteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Квота принята",
		zap.Int64("quote_id", quote.ID),
		zap.Int64("task_id", task.ID),
		zap.Int64("helper_id", quote.HelperID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("task", task),
		toPayload("quote", quote))
}
