package models

import "time"

type Rating struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	RaterID   int64     `json:"rater_id" db:"rater_id"`
	RateeID   int64     `json:"ratee_id" db:"ratee_id"`
	RaterName string    `json:"rater_name,omitempty" db:"-"`
	RateeName string    `json:"ratee_name,omitempty" db:"-"`
	Score     int       `json:"score" db:"score"` // от 1 до 5
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
