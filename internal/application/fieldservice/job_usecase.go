package fieldservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// JobUseCase casos de uso de órdenes de servicio (crear, avanzar estado, portal del técnico).
type JobUseCase struct {
	jobRepo     repository.JobRepository
	contactRepo repository.ContactRepository
	publisher   ports.EventPublisher
}

// NewJobUseCase construye el caso de uso.
func NewJobUseCase(jobRepo repository.JobRepository, contactRepo repository.ContactRepository, publisher ports.EventPublisher) *JobUseCase {
	return &JobUseCase{jobRepo: jobRepo, contactRepo: contactRepo, publisher: publisher}
}

// Create crea una orden pendiente. Si dirección/ciudad vienen vacías se
// heredan del contacto.
func (uc *JobUseCase) Create(companyID string, in dto.CreateJobRequest) (*dto.JobResponse, error) {
	if strings.TrimSpace(in.Title) == "" {
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
	job := &entity.Job{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ContactID:   in.ContactID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      entity.JobStatusPendiente,
		Address:     in.Address,
		City:        in.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if job.Address == "" {
		job.Address = contact.Address
	}
	if job.City == "" {
		job.City = contact.City
	}
	if err := uc.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return ToJobResponse(job), nil
}

// GetByID obtiene una orden verificando tenencia.
func (uc *JobUseCase) GetByID(companyID, id string) (*dto.JobResponse, error) {
	job, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return ToJobResponse(job), nil
}

// List lista órdenes de la empresa; status vacío = todos.
func (uc *JobUseCase) List(companyID, status string, page dto.PageRequest) ([]dto.JobResponse, error) {
	page.DefaultPage()
	jobs, err := uc.jobRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toJobResponses(jobs), nil
}

// ListByTechnician lista las órdenes asignadas a un técnico (su portal).
func (uc *JobUseCase) ListByTechnician(technicianID, status string, page dto.PageRequest) ([]dto.JobResponse, error) {
	page.DefaultPage()
	jobs, err := uc.jobRepo.ListByTechnician(technicianID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toJobResponses(jobs), nil
}

// Update edita título/descripción/dirección de una orden no terminal.
func (uc *JobUseCase) Update(companyID, id string, in dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if job.Status == entity.JobStatusCompletado || job.Status == entity.JobStatusCancelado {
		return nil, domain.ErrConflict
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.ErrInvalidInput
		}
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.Address != nil {
		job.Address = *in.Address
	}
	if in.City != nil {
		job.City = *in.City
	}
	job.UpdatedAt = time.Now()
	if err := uc.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return ToJobResponse(job), nil
}

// ChangeStatus avanza el estado de la orden validando la transición.
// asUserID/asRole identifican a quien ejecuta: un técnico solo puede mover
// sus propias órdenes. Al completar se fija CompletedAt y se guardan WorkNotes.
func (uc *JobUseCase) ChangeStatus(companyID, id, asUserID, asRole string, in dto.ChangeJobStatusRequest) (*dto.JobResponse, error) {
	job, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if asRole == entity.RoleTecnico {
		if job.TechnicianID == nil || *job.TechnicianID != asUserID {
			return nil, domain.ErrForbidden
		}
	}
	if !entity.CanTransitionJob(job.Status, in.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Status, in.Status)
	}
	now := time.Now()
	job.Status = in.Status
	job.UpdatedAt = now
	if in.WorkNotes != "" {
		job.WorkNotes = in.WorkNotes
	}
	if in.Status == entity.JobStatusCompletado {
		job.CompletedAt = &now
	}
	if err := uc.jobRepo.Update(job); err != nil {
		return nil, err
	}
	uc.publisher.PublishToCompany(companyID, dto.RealtimeEvent{
		Type:    entity.NotifJobStatus,
		Payload: ToJobResponse(job),
	})
	return ToJobResponse(job), nil
}

func (uc *JobUseCase) getOwned(companyID, id string) (*entity.Job, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if job.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func toJobResponses(jobs []*entity.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, *ToJobResponse(j))
	}
	return out
}

// ToJobResponse mapea una orden a su DTO de salida.
func ToJobResponse(j *entity.Job) *dto.JobResponse {
	return &dto.JobResponse{
		ID:             j.ID,
		CompanyID:      j.CompanyID,
		ContactID:      j.ContactID,
		TechnicianID:   j.TechnicianID,
		Title:          j.Title,
		Description:    j.Description,
		Status:         j.Status,
		Address:        j.Address,
		City:           j.City,
		ScheduledStart: j.ScheduledStart,
		ScheduledEnd:   j.ScheduledEnd,
		WorkNotes:      j.WorkNotes,
		CompletedAt:    j.CompletedAt,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}
