package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"waveBackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrTooLarge = fmt.Errorf("файл больше допустимого размера")
var ErrBadExtension = fmt.Errorf("недопустимое расширение файла")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Storage — хранилище загруженных картинок на локальном диске.
// Отдаются статикой по публичному пути baseURL.
type Storage struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func New(dir, baseURL string, maxSizeMiB int64) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога загрузок: %w", err)
	}
	return &Storage{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxSizeMiB << 20,
	}, nil
}

func (s *Storage) Dir() string {
	return s.dir
}

// Store проверяет расширение и размер, пишет файл под уникальным именем
// и возвращает публичный URL
func (s *Storage) Store(data []byte, suggestedName string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		logger.Warn("Upload: Файл превышает лимит",
			zap.Int("size", len(data)),
			zap.Int64("max", s.maxBytes))
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(suggestedName))
	if !allowedExtensions[ext] {
		logger.Warn("Upload: Недопустимое расширение", zap.String("filename", suggestedName))
		return "", ErrBadExtension
	}

	filename := uuid.New().String() + "_" + sanitize(suggestedName)
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("Upload: Не удалось сохранить файл", err, zap.String("path", path))
		return "", fmt.Errorf("сохранение файла: %w", err)
	}

	logger.Info("Upload: Файл сохранён", zap.String("path", path))
	return s.baseURL + "/" + filename, nil
}

// sanitize выбрасывает из имени всё кроме букв, цифр, точки, дефиса и подчёркивания
func sanitize(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
