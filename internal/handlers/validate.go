package handlers

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"waveBackend/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// parseIDParam читает числовой URL-параметр; при ошибке сам пишет 400.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idParam := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {

		logger.Warn("HTTP: Неверное значение id",
			zap.String("param", name),
			zap.String("value", idParam),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить "+name)
		return 0, false
	}
	return id, true
}

// readUploadedFile достаёт файл из multipart-поля; при ошибке сам пишет 400.
func readUploadedFile(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile(field)
	if err != nil {

		logger.Warn("HTTP: Не удалось прочитать файл",
			zap.Error(err),
			zap.String("field", field),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось прочитать файл из поля "+field)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {

		logger.Warn("HTTP: Ошибка чтения файла",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "ошибка чтения файла")
		return nil, "", false
	}

	return data, header.Filename, true
}
