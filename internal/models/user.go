package models

import "time"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"name" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"` // "user" или "seeker"
	Skills       string    `json:"skills" db:"skills"`
	ImageURL     *string   `json:"image_url" db:"image_url"`
	Mobile       string    `json:"mobile" db:"mobile"`
	Latitude     *float64  `json:"latitude" db:"latitude"`
	Longitude    *float64  `json:"longitude" db:"longitude"`
	WorkPlatform string    `json:"work_platform" db:"work_platform"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// HasLocation — координаты заданы обе сразу или не заданы вовсе
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
