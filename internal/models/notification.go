package models

import (
	"fmt"
	"time"
)

type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Тексты уведомлений переговоров. Создаются в той же транзакции,
// что и смена статусов квот.
func QuoteDeclinedMessage(taskTitle string) string {
	return fmt.Sprintf("Your quotation for '%s' was declined.", taskTitle)
}

func QuoteAcceptedMessage(taskTitle string) string {
	return fmt.Sprintf("Your work for '%s' was assigned!", taskTitle)
}
