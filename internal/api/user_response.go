package api

import "time"

// swagger:model api.UserResponse
type UserResponse struct {
	ID            int       `json:"id" example:"1"`
	UID           int       `json:"uid" example:"1"`
	Name          string    `json:"name" example:"Alice"`
	Email         string    `json:"email" example:"alice@example.com"`
	Role          string    `json:"role" example:"user"`
	EmailVerified bool      `json:"isEmailVerified" example:"false"`
	CreatedAt     time.Time `json:"createdAt" example:"2025-05-01T15:04:05Z07:00"`
}
