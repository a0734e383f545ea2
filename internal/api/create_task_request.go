package api

// swagger:model api.CreateTaskRequest
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required" example:"Buy groceries"`
	Description string `json:"description" validate:"required" example:"Milk, eggs, bread"`
	DueDate     string `json:"dueDate" validate:"required" example:"2025-01-01"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high" example:"medium"`
	Status      string `json:"status" validate:"omitempty,oneof=pending completed" example:"pending"`
	Category    string `json:"category" validate:"required" example:"errands"`
}
