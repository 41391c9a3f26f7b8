package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"waveBackend/internal/auth"
	"waveBackend/internal/logger"

	"go.uber.org/zap"
)

const UserIdKey contextKey = "user_id"

// UserResolver отдаёт признак админа по id — достаточно для RequireAdmin,
// тянуть сюда весь сервис пользователей не нужно
type UserResolver interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// Auth проверяет bearer-токен и кладёт id пользователя в контекст запроса
func Auth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Warn("HTTP: Запрос без токена",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))
				writeAuthError(w, "требуется bearer-токен")
				return
			}

			userID, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Warn("HTTP: Невалидный токен",
					zap.Error(err),
					zap.String("client_ip", r.RemoteAddr))
				if errors.Is(err, auth.ErrExpiredToken) {
					writeAuthError(w, "токен истёк")
					return
				}
				writeAuthError(w, "невалидный токен")
				return
			}

			ctx := context.WithValue(r.Context(), UserIdKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пускает дальше только админов; вешается после Auth
func RequireAdmin(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())

			isAdmin, err := users.IsAdmin(r.Context(), userID)
			if err != nil || !isAdmin {
				logger.Warn("HTTP: Попытка доступа к админке",
					zap.Int64("user_id", userID),
					zap.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{"error": "только для админов"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIdKey).(int64); ok {
		return id
	}
	return 0
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"error": message})
}
