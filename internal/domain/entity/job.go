package entity

import "time"

// Estados de una orden de servicio (visita en campo).
const (
	JobStatusPendiente  = "pendiente"   // creada, sin agendar
	JobStatusProgramado = "programado"  // técnico y ventana asignados
	JobStatusEnCamino   = "en_camino"   // el técnico va hacia el sitio
	JobStatusEnProgreso = "en_progreso" // trabajo en ejecución
	JobStatusCompletado = "completado"
	JobStatusCancelado  = "cancelado"
)

// jobTransitions define el avance permitido del estado de una orden.
// cancelado es alcanzable desde cualquier estado no terminal.
var jobTransitions = map[string][]string{
	JobStatusPendiente:  {JobStatusProgramado, JobStatusCancelado},
	JobStatusProgramado: {JobStatusEnCamino, JobStatusEnProgreso, JobStatusCancelado},
	JobStatusEnCamino:   {JobStatusEnProgreso, JobStatusCancelado},
	JobStatusEnProgreso: {JobStatusCompletado, JobStatusCancelado},
}

// CanTransitionJob indica si el cambio de estado from -> to está permitido.
func CanTransitionJob(from, to string) bool {
	for _, allowed := range jobTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Job representa una orden de servicio en campo para un contacto.
type Job struct {
	ID             string
	CompanyID      string
	ContactID      string
	TechnicianID   *string // user_id con rol tecnico; nil hasta agendar
	Title          string
	Description    string
	Status         string // ver constantes JobStatus*
	Address        string
	City           string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	WorkNotes      string // notas del técnico en sitio
	ReminderSent   bool   // recordatorio de visita ya enviado (scheduler)
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsScheduled indica si la orden tiene técnico y ventana asignados.
func (j *Job) IsScheduled() bool {
	return j.TechnicianID != nil && j.ScheduledStart != nil && j.ScheduledEnd != nil
}
