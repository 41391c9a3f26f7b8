package models

import "time"

type Quote struct {
	ID         int64       `json:"id" db:"id"`
	TaskID     int64       `json:"task_id" db:"task_id"`
	HelperID   int64       `json:"helper_id" db:"helper_id"`
	HelperName string      `json:"helper_name,omitempty" db:"-"`
	Charges    float64     `json:"charges" db:"charges"`
	Hours      float64     `json:"hours" db:"hours"`
	Mobile     string      `json:"mobile" db:"mobile"`
	Status     QuoteStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

type QuoteStatus string

const QuotePending QuoteStatus = "pending"
const QuoteAccepted QuoteStatus = "accepted"
const QuoteDeclined QuoteStatus = "declined"
