// Package dto описывает формы запросов и ответов HTTP-слоя.
package dto

type RegisterRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         string   `json:"role"`
	Skills       string   `json:"skills"`
	Mobile       string   `json:"mobile"`
	WorkPlatform string   `json:"work_platform"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Reward      string   `json:"reward"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type SubmitQuoteRequest struct {
	Charges *float64 `json:"charges"`
	Hours   *float64 `json:"hours"`
	Mobile  string   `json:"mobile"`
}

type SubmitRatingRequest struct {
	TaskID  *int64 `json:"task_id"`
	RateeID *int64 `json:"ratee_id"`
	Score   *int   `json:"score"`
	Comment string `json:"comment"`
}

type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
