package dto

import "time"

// CreateContactRequest entrada para crear un contacto del CRM.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"` // E.164 preferido
	Address string `json:"address" validate:"omitempty,max=300"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Source  string `json:"source" validate:"omitempty,max=50"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateContactRequest entrada para editar un contacto. Campos nil no se tocan.
type UpdateContactRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=300"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	Source  *string `json:"source" validate:"omitempty,max=50"`
	Notes   *string `json:"notes" validate:"omitempty,max=2000"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Source    string    `json:"source,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
