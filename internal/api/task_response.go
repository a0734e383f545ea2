package api

import "time"

// swagger:model api.TaskResponse
type TaskResponse struct {
	ID          int       `json:"id" example:"1"`
	Title       string    `json:"title" example:"Buy groceries"`
	Description string    `json:"description" example:"Milk, eggs, bread"`
	DueDate     time.Time `json:"dueDate" example:"2025-01-01T00:00:00Z"`
	Priority    string    `json:"priority" example:"medium"`
	Status      string    `json:"status" example:"pending"`
	Category    string    `json:"category" example:"errands"`
	UserID      int       `json:"userId" example:"1"`
	CreatedAt   time.Time `json:"createdAt" example:"2025-05-01T15:04:05Z07:00"`
	UpdatedAt   time.Time `json:"updatedAt" example:"2025-05-01T15:04:05Z07:00"`
}
