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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, contact_id, job_id, estimate_id, number, status,
	subtotal, tax_total, grand_total, notes, due_date, payment_link_url, stripe_session_id,
	paid_at, payment_ref, sent_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var i entity.Invoice
	err := row.Scan(&i.ID, &i.CompanyID, &i.ContactID, &i.JobID, &i.EstimateID, &i.Number,
		&i.Status, &i.Subtotal, &i.TaxTotal, &i.GrandTotal, &i.Notes, &i.DueDate,
		&i.PaymentLinkURL, &i.StripeSessionID, &i.PaidAt, &i.PaymentRef, &i.SentAt,
		&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create persiste cabecera y líneas de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice, items []entity.InvoiceItem) error {
	ctx := context.Background()
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.ContactID, invoice.JobID, invoice.EstimateID,
		invoice.Number, invoice.Status, invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal,
		invoice.Notes, invoice.DueDate, invoice.PaymentLinkURL, invoice.StripeSessionID,
		invoice.PaidAt, invoice.PaymentRef, invoice.SentAt, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	const itemQuery = `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, tax_rate, subtotal, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.InvoiceID, it.Description, it.Quantity, it.UnitPrice,
			it.TaxRate, it.Subtotal, it.Position,
		); err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	i, err := scanInvoice(r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return i, nil
}

// GetItems obtiene las líneas de la factura en orden.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]entity.InvoiceItem, error) {
	const query = `
		SELECT id, invoice_id, description, quantity, unit_price, tax_rate, subtotal, position
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	var items []entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.Subtotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByCompany lista facturas; status vacío = todos los estados.
func (r *InvoiceRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
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
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListByContact lista facturas del contacto (portal de clientes).
func (r *InvoiceRepo) ListByContact(contactID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE contact_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, contactID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices by contact: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Update actualiza la cabecera de una factura.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET status = $2, subtotal = $3, tax_total = $4, grand_total = $5,
			notes = $6, due_date = $7, payment_link_url = $8, stripe_session_id = $9,
			paid_at = $10, payment_ref = $11, sent_at = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal,
		invoice.Notes, invoice.DueDate, invoice.PaymentLinkURL, invoice.StripeSessionID,
		invoice.PaidAt, invoice.PaymentRef, invoice.SentAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByStripeSession localiza la factura por el checkout session del link de pago.
func (r *InvoiceRepo) GetByStripeSession(sessionID string) (*entity.Invoice, error) {
	i, err := scanInvoice(r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE stripe_session_id = $1`, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by stripe session: %w", err)
	}
	return i, nil
}

// NextNumber reserva el siguiente consecutivo de factura de la empresa.
func (r *InvoiceRepo) NextNumber(ctx context.Context, companyID string) (int64, error) {
	const query = `
		INSERT INTO company_sequences (company_id, seq_name, current_value)
		VALUES ($1, 'invoice', 1)
		ON CONFLICT (company_id, seq_name)
		DO UPDATE SET current_value = company_sequences.current_value + 1
		RETURNING current_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}
