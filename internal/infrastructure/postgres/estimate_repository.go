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

var _ repository.EstimateRepository = (*EstimateRepo)(nil)

// EstimateRepo implementación de EstimateRepository (usable con pool o tx).
type EstimateRepo struct {
	q Querier
}

// NewEstimateRepository construye el adaptador.
func NewEstimateRepository(q Querier) *EstimateRepo {
	return &EstimateRepo{q: q}
}

const estimateColumns = `id, company_id, contact_id, job_id, number, status, subtotal,
	tax_total, grand_total, notes, valid_until, sent_at, decided_at, created_at, updated_at`

func scanEstimate(row pgx.Row) (*entity.Estimate, error) {
	var e entity.Estimate
	err := row.Scan(&e.ID, &e.CompanyID, &e.ContactID, &e.JobID, &e.Number, &e.Status,
		&e.Subtotal, &e.TaxTotal, &e.GrandTotal, &e.Notes, &e.ValidUntil, &e.SentAt,
		&e.DecidedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste cabecera y líneas de la cotización.
func (r *EstimateRepo) Create(estimate *entity.Estimate, items []entity.EstimateItem) error {
	ctx := context.Background()
	query := `
		INSERT INTO estimates (` + estimateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		estimate.ID, estimate.CompanyID, estimate.ContactID, estimate.JobID,
		estimate.Number, estimate.Status, estimate.Subtotal, estimate.TaxTotal,
		estimate.GrandTotal, estimate.Notes, estimate.ValidUntil, estimate.SentAt,
		estimate.DecidedAt, estimate.CreatedAt, estimate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert estimate: %w", err)
	}
	const itemQuery = `
		INSERT INTO estimate_items (id, estimate_id, description, quantity, unit_price, tax_rate, subtotal, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.EstimateID, it.Description, it.Quantity, it.UnitPrice,
			it.TaxRate, it.Subtotal, it.Position,
		); err != nil {
			return fmt.Errorf("insert estimate item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *EstimateRepo) GetByID(id string) (*entity.Estimate, error) {
	e, err := scanEstimate(r.q.QueryRow(context.Background(),
		`SELECT `+estimateColumns+` FROM estimates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estimate: %w", err)
	}
	return e, nil
}

// GetItems obtiene las líneas de la cotización en orden.
func (r *EstimateRepo) GetItems(estimateID string) ([]entity.EstimateItem, error) {
	const query = `
		SELECT id, estimate_id, description, quantity, unit_price, tax_rate, subtotal, position
		FROM estimate_items WHERE estimate_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, estimateID)
	if err != nil {
		return nil, fmt.Errorf("get estimate items: %w", err)
	}
	defer rows.Close()
	var items []entity.EstimateItem
	for rows.Next() {
		var it entity.EstimateItem
		if err := rows.Scan(&it.ID, &it.EstimateID, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.Subtotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan estimate item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByCompany lista cotizaciones; status vacío = todos los estados.
func (r *EstimateRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Estimate, error) {
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE company_id = $1`
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
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()
	return collectEstimates(rows)
}

// ListByContact lista cotizaciones del contacto (portal de clientes).
func (r *EstimateRepo) ListByContact(contactID string, limit, offset int) ([]*entity.Estimate, error) {
	query := `SELECT ` + estimateColumns + ` FROM estimates
		WHERE contact_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, contactID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list estimates by contact: %w", err)
	}
	defer rows.Close()
	return collectEstimates(rows)
}

func collectEstimates(rows pgx.Rows) ([]*entity.Estimate, error) {
	var list []*entity.Estimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update actualiza la cabecera de una cotización.
func (r *EstimateRepo) Update(estimate *entity.Estimate) error {
	query := `
		UPDATE estimates SET status = $2, subtotal = $3, tax_total = $4, grand_total = $5,
			notes = $6, valid_until = $7, sent_at = $8, decided_at = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		estimate.ID, estimate.Status, estimate.Subtotal, estimate.TaxTotal,
		estimate.GrandTotal, estimate.Notes, estimate.ValidUntil, estimate.SentAt,
		estimate.DecidedAt, estimate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update estimate: %w", err)
	}
	return nil
}

// NextNumber reserva el siguiente consecutivo de cotización de la empresa.
// Upsert atómico sobre company_sequences: sin carreras entre requests concurrentes.
func (r *EstimateRepo) NextNumber(ctx context.Context, companyID string) (int64, error) {
	const query = `
		INSERT INTO company_sequences (company_id, seq_name, current_value)
		VALUES ($1, 'estimate', 1)
		ON CONFLICT (company_id, seq_name)
		DO UPDATE SET current_value = company_sequences.current_value + 1
		RETURNING current_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next estimate number: %w", err)
	}
	return n, nil
}
