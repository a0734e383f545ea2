package api

// swagger:model api.UpdateTaskRequest
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1" example:"Buy groceries"`
	Description *string `json:"description" validate:"omitempty,min=1" example:"Milk, eggs, bread"`
	DueDate     *string `json:"dueDate" validate:"omitempty" example:"2025-01-01"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high" example:"high"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed" example:"completed"`
	Category    *string `json:"category" validate:"omitempty,min=1" example:"errands"`
}
