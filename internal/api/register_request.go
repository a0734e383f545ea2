package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" validate:"required" example:"Alice"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"Secret123!"`
}
