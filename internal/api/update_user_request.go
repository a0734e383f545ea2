package api

// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1" example:"Alice"`
	Email         *string `json:"email" validate:"omitempty,email" example:"alice@example.com"`
	Role          *string `json:"role" validate:"omitempty,oneof=user admin" example:"user"`
	EmailVerified *bool   `json:"isEmailVerified" example:"true"`
}
