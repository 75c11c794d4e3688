package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `id, company_id, contact_id, title, stage, value, source, assigned_to, notes, closed_at, created_at, updated_at`

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.CompanyID, &l.ContactID, &l.Title, &l.Stage, &l.Value,
		&l.Source, &l.AssignedTo, &l.Notes, &l.ClosedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		lead.ID, lead.CompanyID, lead.ContactID, lead.Title, lead.Stage, lead.Value,
		lead.Source, lead.AssignedTo, lead.Notes, lead.ClosedAt, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound // el contacto no existe
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead por ID.
func (r *LeadRepo) GetByID(id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(context.Background(),
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// ListByCompany lista leads; stage vacío = todas las etapas.
func (r *LeadRepo) ListByCompany(companyID, stage string, limit, offset int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1`
	args := []any{companyID}
	if stage != "" {
		query += ` AND stage = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, stage, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update actualiza un lead.
func (r *LeadRepo) Update(lead *entity.Lead) error {
	query := `
		UPDATE leads SET title = $2, stage = $3, value = $4, source = $5,
			assigned_to = $6, notes = $7, closed_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lead.ID, lead.Title, lead.Stage, lead.Value, lead.Source,
		lead.AssignedTo, lead.Notes, lead.ClosedAt, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

// Delete elimina un lead por ID.
func (r *LeadRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

// PipelineSummary agrega conteo y valor por etapa del pipeline.
// Los errores de esta consulta se propagan: el tablero nunca devuelve
// un pipeline vacío para ocultar un fallo interno.
func (r *LeadRepo) PipelineSummary(ctx context.Context, companyID string) ([]repository.PipelineStageResult, error) {
	const query = `
	SELECT stage, COUNT(*) AS lead_count, COALESCE(SUM(value), 0) AS total_value
	FROM leads
	WHERE company_id = $1
	GROUP BY stage`

	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("lead pipeline summary: %w", err)
	}
	defer rows.Close()

	var results []repository.PipelineStageResult
	for rows.Next() {
		var res repository.PipelineStageResult
		if err := rows.Scan(&res.Stage, &res.LeadCount, &res.TotalValue); err != nil {
			return nil, fmt.Errorf("lead pipeline scan: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
