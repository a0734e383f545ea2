package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name          string `json:"name" validate:"required" example:"Alice"`
	Email         string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password      string `json:"password" validate:"required" example:"Secret123!"`
	Role          string `json:"role" validate:"omitempty,oneof=user admin" example:"user"`
	EmailVerified bool   `json:"isEmailVerified" example:"false"`
}
