package dto

type CreateAllowedEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=staff admin"`
}

type UpdateAllowedEmailRequest struct {
	Role   *string `json:"role"   validate:"omitempty,oneof=staff admin"`
	Active *bool   `json:"active"`
}

type AllowedEmailResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}
