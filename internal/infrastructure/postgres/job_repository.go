package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de JobRepository (usable con pool o tx).
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador.
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, company_id, contact_id, technician_id, title, description, status,
	address, city, scheduled_start, scheduled_end, work_notes, reminder_sent, completed_at,
	created_at, updated_at`

func scanJob(row pgx.Row) (*entity.Job, error) {
	var j entity.Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.ContactID, &j.TechnicianID, &j.Title,
		&j.Description, &j.Status, &j.Address, &j.City, &j.ScheduledStart, &j.ScheduledEnd,
		&j.WorkNotes, &j.ReminderSent, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]*entity.Job, error) {
	var list []*entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// Create persiste una nueva orden de servicio.
func (r *JobRepo) Create(job *entity.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.CompanyID, job.ContactID, job.TechnicianID, job.Title,
		job.Description, job.Status, job.Address, job.City, job.ScheduledStart,
		job.ScheduledEnd, job.WorkNotes, job.ReminderSent, job.CompletedAt,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *JobRepo) GetByID(id string) (*entity.Job, error) {
	j, err := scanJob(r.q.QueryRow(context.Background(),
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// ListByCompany lista órdenes; status vacío = todos los estados.
func (r *JobRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		query += ` AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListAgenda lista órdenes programadas dentro del rango; technicianID vacío = todos.
func (r *JobRepo) ListAgenda(ctx context.Context, companyID string, from, to time.Time, technicianID string) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE company_id = $1
		  AND scheduled_start IS NOT NULL
		  AND scheduled_start >= $2 AND scheduled_start < $3
		  AND status NOT IN ('cancelado')`
	args := []any{companyID, from, to}
	if technicianID != "" {
		query += ` AND technician_id = $4`
		args = append(args, technicianID)
	}
	query += ` ORDER BY scheduled_start`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListByTechnician lista las órdenes asignadas a un técnico (portal de técnicos).
func (r *JobRepo) ListByTechnician(technicianID, status string, limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE technician_id = $1`
	args := []any{technicianID}
	if status != "" {
		query += ` AND status = $2 ORDER BY scheduled_start NULLS LAST LIMIT $3 OFFSET $4`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY scheduled_start NULLS LAST LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs by technician: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// Update actualiza una orden.
func (r *JobRepo) Update(job *entity.Job) error {
	query := `
		UPDATE jobs SET contact_id = $2, technician_id = $3, title = $4, description = $5,
			status = $6, address = $7, city = $8, scheduled_start = $9, scheduled_end = $10,
			work_notes = $11, reminder_sent = $12, completed_at = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.ContactID, job.TechnicianID, job.Title, job.Description,
		job.Status, job.Address, job.City, job.ScheduledStart, job.ScheduledEnd,
		job.WorkNotes, job.ReminderSent, job.CompletedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// HasOverlap verifica si el técnico tiene otra orden programada que se cruce con [start, end).
func (r *JobRepo) HasOverlap(ctx context.Context, technicianID string, start, end time.Time, excludeJobID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM jobs
		WHERE technician_id = $1
		  AND id <> $4
		  AND status NOT IN ('cancelado', 'completado')
		  AND scheduled_start IS NOT NULL AND scheduled_end IS NOT NULL
		  AND scheduled_start < $3 AND scheduled_end > $2
	)`
	var overlap bool
	if err := r.q.QueryRow(ctx, query, technicianID, start, end, excludeJobID).Scan(&overlap); err != nil {
		return false, fmt.Errorf("check schedule overlap: %w", err)
	}
	return overlap, nil
}

// ListUpcomingWithoutReminder devuelve órdenes programadas de todas las empresas
// que inician dentro de [from, to) y aún no tienen recordatorio enviado.
func (r *JobRepo) ListUpcomingWithoutReminder(ctx context.Context, from, to time.Time) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE status = 'programado'
		  AND NOT reminder_sent
		  AND scheduled_start >= $1 AND scheduled_start < $2
		ORDER BY scheduled_start`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// MarkReminderSent marca el recordatorio de la orden como enviado.
func (r *JobRepo) MarkReminderSent(ctx context.Context, jobID string) error {
	_, err := r.q.Exec(ctx, `UPDATE jobs SET reminder_sent = TRUE, updated_at = now() WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}
