package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLeadRequest entrada para crear una oportunidad de venta.
type CreateLeadRequest struct {
	ContactID  string          `json:"contact_id" validate:"required,uuid"`
	Title      string          `json:"title" validate:"required,min=1,max=200"`
	Value      decimal.Decimal `json:"value" validate:"omitempty"`
	Source     string          `json:"source" validate:"omitempty,max=50"`
	AssignedTo *string         `json:"assigned_to" validate:"omitempty,uuid"`
	Notes      string          `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateLeadRequest entrada para editar un lead. Campos nil no se tocan.
// La etapa NO se edita aquí: usar ChangeLeadStageRequest.
type UpdateLeadRequest struct {
	Title      *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Value      *decimal.Decimal `json:"value"`
	Source     *string          `json:"source" validate:"omitempty,max=50"`
	AssignedTo *string          `json:"assigned_to" validate:"omitempty,uuid"`
	Notes      *string          `json:"notes" validate:"omitempty,max=2000"`
}

// ChangeLeadStageRequest entrada para mover un lead de etapa.
type ChangeLeadStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=nuevo contactado cotizado ganado perdido"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	ContactID  string          `json:"contact_id"`
	Title      string          `json:"title"`
	Stage      string          `json:"stage"`
	Value      decimal.Decimal `json:"value"`
	Source     string          `json:"source,omitempty"`
	AssignedTo *string         `json:"assigned_to,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	ClosedAt   *time.Time      `json:"closed_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PipelineStageDTO agregado de una etapa del tablero.
type PipelineStageDTO struct {
	Stage      string          `json:"stage"`
	LeadCount  int64           `json:"lead_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

/// PipelineBoardDTO tablero del pipeline: todas las etapas en orden,
// con cero para las que no tienen leads.
type PipelineBoardDTO struct {
	Stages []PipelineStageDTO `json:"stages"`
}
