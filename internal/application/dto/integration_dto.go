package dto

import "time"

// UpsertIntegrationRequest entrada para configurar un proveedor externo.
// Secret vacío conserva el secreto ya guardado.
type UpsertIntegrationRequest struct {
	Provider string            `json:"provider" validate:"required,oneof=smtp sms stripe ai"`
	Settings map[string]string `json:"settings"`
	Secret   string            `json:"secret" validate:"omitempty,max=500"`
}

// IntegrationResponse salida de una integración. SecretHint son los últimos
// 4 caracteres del secreto; el valor completo nunca sale por la API.
type IntegrationResponse struct {
	ID         string            `json:"id"`
	Provider   string            `json:"provider"`
	Settings   map[string]string `json:"settings,omitempty"`
	SecretHint string            `json:"secret_hint,omitempty"`
	IsActive   bool              `json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
