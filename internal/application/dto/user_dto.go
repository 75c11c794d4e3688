package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"omitempty,max=200"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"omitempty,oneof=admin tecnico cliente"`
}

// CreateUserRequest entrada para crear un usuario desde el back-office
// (password en texto, se hashea en el use case).
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Phone     string  `json:"phone" validate:"omitempty,max=20"`
	Role      string  `json:"role" validate:"required,oneof=admin tecnico cliente"`
	ContactID *string `json:"contact_id" validate:"omitempty,uuid"` // solo rol cliente
}

// UpdateUserRequest entrada para editar un usuario. Campos nil no se tocan.
type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone  *string `json:"phone" validate:"omitempty,max=20"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ContactID *string   `json:"contact_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
