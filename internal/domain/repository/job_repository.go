package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// JobRepository define el puerto de persistencia para Job (órdenes de servicio).
type JobRepository interface {
	Create(job *entity.Job) error
	GetByID(id string) (*entity.Job, error)
	// ListByCompany lista órdenes; status vacío = todos los estados.
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Job, error)
	// ListAgenda lista órdenes programadas dentro del rango; technicianID vacío = todos.
	ListAgenda(ctx context.Context, companyID string, from, to time.Time, technicianID string) ([]*entity.Job, error)
	ListByTechnician(technicianID, status string, limit, offset int) ([]*entity.Job, error)
	Update(job *entity.Job) error
	// HasOverlap verifica si el técnico tiene otra orden programada que se cruce
	// con [start, end). excludeJobID evita que una orden choque consigo misma al reagendar.
	HasOverlap(ctx context.Context, technicianID string, start, end time.Time, excludeJobID string) (bool, error)
	// ListUpcomingWithoutReminder devuelve órdenes programadas de TODAS las empresas
	// que inician dentro de [from, to) y aún no tienen recordatorio enviado (scheduler).
	ListUpcomingWithoutReminder(ctx context.Context, from, to time.Time) ([]*entity.Job, error)
	MarkReminderSent(ctx context.Context, jobID string) error
}
