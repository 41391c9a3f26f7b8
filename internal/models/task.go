package models

import "time"

type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	Reward      string     `json:"reward" db:"reward"`
	Status      TaskStatus `json:"status" db:"status"`
	Latitude    float64    `json:"latitude" db:"latitude"`
	Longitude   float64    `json:"longitude" db:"longitude"`
	PosterID    int64      `json:"poster_id" db:"poster_id"`
	HelperID    *int64     `json:"helper_id" db:"helper_id"`
	Charges     *float64   `json:"charges" db:"charges"`
	Hours       *float64   `json:"hours" db:"hours"`
	ImageURL    *string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time  `json:"-" db:"created_at"`
	UpdatedAt   *time.Time `json:"-" db:"updated_at"`

	// подгружаются только в выборке "мои задачи"
	Quotes  []*Quote  `json:"quotes,omitempty"`
	Ratings []*Rating `json:"ratings,omitempty"`
}

type TaskStatus string

// Жизненный цикл задачи: open → accepted → completed.
// "Есть ожидающие квоты" — производное состояние, отдельным статусом не хранится.
const StatusOpen TaskStatus = "open"
const StatusAccepted TaskStatus = "accepted"
const StatusCompleted TaskStatus = "completed"

// IsParticipant — постер или назначенный хелпер
func (t *Task) IsParticipant(userID int64) bool {
	if t.PosterID == userID {
		return true
	}
	return t.HelperID != nil && *t.HelperID == userID
}
