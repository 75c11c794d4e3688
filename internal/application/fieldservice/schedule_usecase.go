package fieldservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ScheduleUseCase agenda visitas: asigna técnico y ventana a una orden,
// garantizando que el técnico no tenga otra visita que se cruce.
type ScheduleUseCase struct {
	txRunner  TxRunner
	jobRepo   repository.JobRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	publisher ports.EventPublisher
}

// NewScheduleUseCase construye el caso de uso.
func NewScheduleUseCase(txRunner TxRunner, jobRepo repository.JobRepository, userRepo repository.UserRepository, notifRepo repository.NotificationRepository, publisher ports.EventPublisher) *ScheduleUseCase {
	return &ScheduleUseCase{txRunner: txRunner, jobRepo: jobRepo, userRepo: userRepo, notifRepo: notifRepo, publisher: publisher}
}

// Schedule asigna técnico y ventana de visita a una orden pendiente (o la
// reagenda si ya estaba programada). El chequeo de cruce y la escritura van
// en la misma transacción; si el técnico tiene otra visita que se cruza con
// [start, end) devuelve ErrScheduleOverlap.
func (uc *ScheduleUseCase) Schedule(ctx context.Context, companyID, jobID string, in dto.ScheduleJobRequest) (*dto.JobResponse, error) {
	if !in.ScheduledEnd.After(in.ScheduledStart) {
		return nil, domain.ErrInvalidInput
	}
	tech, err := uc.userRepo.GetByID(in.TechnicianID)
	if err != nil {
		return nil, err
	}
	if tech == nil || tech.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if tech.Role != entity.RoleTecnico {
		return nil, fmt.Errorf("%w: el usuario asignado no es técnico", domain.ErrInvalidInput)
	}

	var scheduled *entity.Job
	err = uc.txRunner.RunScheduling(ctx, func(jobRepo repository.JobRepository) error {
		job, err := jobRepo.GetByID(jobID)
		if err != nil {
			return err
		}
		if job == nil {
			return domain.ErrNotFound
		}
		if job.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if job.Status != entity.JobStatusPendiente && job.Status != entity.JobStatusProgramado {
			return domain.ErrConflict
		}
		overlap, err := jobRepo.HasOverlap(ctx, in.TechnicianID, in.ScheduledStart, in.ScheduledEnd, job.ID)
		if err != nil {
			return fmt.Errorf("agendar: verificar cruce: %w", err)
		}
		if overlap {
			return domain.ErrScheduleOverlap
		}
		now := time.Now()
		job.TechnicianID = &in.TechnicianID
		job.ScheduledStart = &in.ScheduledStart
		job.ScheduledEnd = &in.ScheduledEnd
		job.Status = entity.JobStatusProgramado
		job.ReminderSent = false // reagendar reinicia el recordatorio
		job.UpdatedAt = now
		if err := jobRepo.Update(job); err != nil {
			return err
		}
		scheduled = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyTechnician(scheduled, tech)
	return ToJobResponse(scheduled), nil
}

// Agenda devuelve las visitas programadas de la empresa dentro del rango.
// technicianID vacío = todos los técnicos.
func (uc *ScheduleUseCase) Agenda(ctx context.Context, companyID string, q dto.AgendaQuery) ([]dto.JobResponse, error) {
	from, to := q.From, q.To
	if from.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 7)
	}
	if !to.After(from) {
		return nil, domain.ErrInvalidInput
	}
	jobs, err := uc.jobRepo.ListAgenda(ctx, companyID, from, to, q.TechnicianID)
	if err != nil {
		return nil, err
	}
	return toJobResponses(jobs), nil
}

// notifyTechnician deja la notificación in-app y publica el evento WebSocket.
// Un fallo aquí no revierte el agendamiento; solo queda sin aviso.
func (uc *ScheduleUseCase) notifyTechnician(job *entity.Job, tech *entity.User) {
	now := time.Now()
	notif := &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: job.CompanyID,
		UserID:    tech.ID,
		Type:      entity.NotifJobScheduled,
		Title:     "Visita asignada",
		Body:      fmt.Sprintf("%s — %s", job.Title, job.ScheduledStart.Format("02/01/2006 15:04")),
		EntityID:  job.ID,
		CreatedAt: now,
	}
	_ = uc.notifRepo.Create(notif)
	uc.publisher.PublishToUser(tech.ID, dto.RealtimeEvent{
		Type:    entity.NotifJobScheduled,
		Payload: ToJobResponse(job),
	})
}
