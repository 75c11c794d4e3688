package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// LeadUseCase casos de uso del pipeline de ventas.
// Al ganar un lead se crea automáticamente una orden de servicio pendiente.
type LeadUseCase struct {
	leadRepo    repository.LeadRepository
	contactRepo repository.ContactRepository
	jobRepo     repository.JobRepository
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leadRepo repository.LeadRepository, contactRepo repository.ContactRepository, jobRepo repository.JobRepository) *LeadUseCase {
	return &LeadUseCase{leadRepo: leadRepo, contactRepo: contactRepo, jobRepo: jobRepo}
}

// Create crea un lead en etapa nuevo, validando el contacto.
func (uc *LeadUseCase) Create(companyID string, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Value.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	contact, err := uc.contactRepo.GetByID(in.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ContactID:  in.ContactID,
		Title:      strings.TrimSpace(in.Title),
		Stage:      entity.LeadStageNuevo,
		Value:      in.Value,
		Source:     in.Source,
		AssignedTo: in.AssignedTo,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.leadRepo.Create(lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// GetByID obtiene un lead verificando tenencia.
func (uc *LeadUseCase) GetByID(companyID, id string) (*dto.LeadResponse, error) {
	lead, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// List lista leads; stage vacío = todas las etapas.
func (uc *LeadUseCase) List(companyID, stage string, page dto.PageRequest) ([]dto.LeadResponse, error) {
	page.DefaultPage()
	leads, err := uc.leadRepo.ListByCompany(companyID, stage, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, *toLeadResponse(l))
	}
	return out, nil
}

// Update edita un lead abierto; los cerrados (ganado/perdido) son inmutables.
func (uc *LeadUseCase) Update(companyID, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if lead.IsClosed() {
		return nil, domain.ErrConflict
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.ErrInvalidInput
		}
		lead.Title = strings.TrimSpace(*in.Title)
	}
	if in.Value != nil {
		if in.Value.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lead.Value = *in.Value
	}
	if in.Source != nil {
		lead.Source = *in.Source
	}
	if in.AssignedTo != nil {
		lead.AssignedTo = in.AssignedTo
	}
	if in.Notes != nil {
		lead.Notes = *in.Notes
	}
	lead.UpdatedAt = time.Now()
	if err := uc.leadRepo.Update(lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// ChangeStage mueve el lead de etapa validando la transición.
// Al pasar a ganado se crea una orden de servicio pendiente para el contacto.
func (uc *LeadUseCase) ChangeStage(companyID, id string, in dto.ChangeLeadStageRequest) (*dto.LeadResponse, error) {
	lead, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransitionLead(lead.Stage, in.Stage) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, lead.Stage, in.Stage)
	}
	now := time.Now()
	lead.Stage = in.Stage
	lead.UpdatedAt = now
	if lead.IsClosed() {
		lead.ClosedAt = &now
	}
	if err := uc.leadRepo.Update(lead); err != nil {
		return nil, err
	}
	if in.Stage == entity.LeadStageGanado {
		if err := uc.createJobFromLead(lead, now); err != nil {
			return nil, fmt.Errorf("lead ganado: crear orden: %w", err)
		}
	}
	return toLeadResponse(lead), nil
}

// Delete elimina un lead abierto.
func (uc *LeadUseCase) Delete(companyID, id string) error {
	lead, err := uc.getOwned(companyID, id)
	if err != nil {
		return err
	}
	if lead.IsClosed() {
		return domain.ErrConflict
	}
	return uc.leadRepo.Delete(id)
}

// PipelineBoard arma el tablero: todas las etapas en orden con sus agregados,
// incluyendo las vacías en cero.
func (uc *LeadUseCase) PipelineBoard(ctx context.Context, companyID string) (*dto.PipelineBoardDTO, error) {
	summary, err := uc.leadRepo.PipelineSummary(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("pipeline: resumen por etapa: %w", err)
	}
	byStage := make(map[string]repository.PipelineStageResult, len(summary))
	for _, s := range summary {
		byStage[s.Stage] = s
	}
	board := &dto.PipelineBoardDTO{Stages: make([]dto.PipelineStageDTO, 0, len(entity.LeadStages))}
	for _, stage := range entity.LeadStages {
		item := dto.PipelineStageDTO{Stage: stage, TotalValue: decimal.Zero}
		if s, ok := byStage[stage]; ok {
			item.LeadCount = s.LeadCount
			item.TotalValue = s.TotalValue
		}
		board.Stages = append(board.Stages, item)
	}
	return board, nil
}

func (uc *LeadUseCase) getOwned(companyID, id string) (*entity.Lead, error) {
	lead, err := uc.leadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	if lead.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return lead, nil
}

func (uc *LeadUseCase) createJobFromLead(lead *entity.Lead, now time.Time) error {
	contact, err := uc.contactRepo.GetByID(lead.ContactID)
	if err != nil {
		return err
	}
	job := &entity.Job{
		ID:        uuid.New().String(),
		CompanyID: lead.CompanyID,
		ContactID: lead.ContactID,
		Title:     lead.Title,
		Status:    entity.JobStatusPendiente,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if contact != nil {
		job.Address = contact.Address
		job.City = contact.City
	}
	return uc.jobRepo.Create(job)
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:         l.ID,
		CompanyID:  l.CompanyID,
		ContactID:  l.ContactID,
		Title:      l.Title,
		Stage:      l.Stage,
		Value:      l.Value,
		Source:     l.Source,
		AssignedTo: l.AssignedTo,
		Notes:      l.Notes,
		ClosedAt:   l.ClosedAt,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
