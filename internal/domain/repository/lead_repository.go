package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// PipelineStageResult agregado por etapa del pipeline (tablero de leads).
type PipelineStageResult struct {
	Stage      string
	LeadCount  int64
	TotalValue decimal.Decimal
}

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	Create(lead *entity.Lead) error
	GetByID(id string) (*entity.Lead, error)
	// ListByCompany lista leads; stage vacío = todas las etapas.
	ListByCompany(companyID, stage string, limit, offset int) ([]*entity.Lead, error)
	Update(lead *entity.Lead) error
	Delete(id string) error
	// PipelineSummary devuelve conteo y valor total por etapa.
	PipelineSummary(ctx context.Context, companyID string) ([]PipelineStageResult, error)
}
