package dto

import "time"

// CreateJobRequest entrada para crear una orden de servicio.
type CreateJobRequest struct {
	ContactID   string `json:"contact_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	City        string `json:"city" validate:"omitempty,max=100"`
}

// UpdateJobRequest entrada para editar una orden. Campos nil no se tocan.
type UpdateJobRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	City        *string `json:"city" validate:"omitempty,max=100"`
}

// ScheduleJobRequest entrada para asignar técnico y ventana de visita.
type ScheduleJobRequest struct {
	TechnicianID   string    `json:"technician_id" validate:"required,uuid"`
	ScheduledStart time.Time `json:"scheduled_start" validate:"required"`
	ScheduledEnd   time.Time `json:"scheduled_end" validate:"required"`
}

// ChangeJobStatusRequest entrada para avanzar el estado de una orden.
// WorkNotes solo aplica al completar o durante la ejecución.
type ChangeJobStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pendiente programado en_camino en_progreso completado cancelado"`
	WorkNotes string `json:"work_notes" validate:"omitempty,max=4000"`
}

// AgendaQuery filtros para la agenda de visitas.
type AgendaQuery struct {
	From         time.Time `query:"from"`
	To           time.Time `query:"to"`
	TechnicianID string    `query:"technician_id" validate:"omitempty,uuid"`
}

// JobResponse salida de una orden de servicio.
type JobResponse struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"company_id"`
	ContactID      string     `json:"contact_id"`
	TechnicianID   *string    `json:"technician_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	WorkNotes      string     `json:"work_notes,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
