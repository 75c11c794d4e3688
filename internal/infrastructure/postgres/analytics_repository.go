package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetRevenueByMonth agrupa facturación por mes dentro del rango.
// Revenue suma solo lo pagado; Billed suma todo lo emitido menos canceladas.
func (r *AnalyticsRepo) GetRevenueByMonth(ctx context.Context, companyID string, from, to time.Time) ([]repository.MonthlyRevenueResult, error) {
	const query = `
		SELECT EXTRACT(YEAR FROM created_at)::int AS yr,
		       EXTRACT(MONTH FROM created_at)::int AS mo,
		       COALESCE(SUM(grand_total) FILTER (WHERE status = 'pagada'), 0) AS revenue,
		       COALESCE(SUM(grand_total) FILTER (WHERE status <> 'cancelada'), 0) AS billed
		FROM invoices
		WHERE company_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY yr, mo
		ORDER BY yr, mo`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue by month: %w", err)
	}
	defer rows.Close()
	var results []repository.MonthlyRevenueResult
	for rows.Next() {
		var m repository.MonthlyRevenueResult
		if err := rows.Scan(&m.Year, &m.Month, &m.Revenue, &m.Billed); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// GetJobStatusCounts cuenta órdenes de trabajo por estado dentro del rango.
func (r *AnalyticsRepo) GetJobStatusCounts(ctx context.Context, companyID string, from, to time.Time) ([]repository.StatusCountResult, error) {
	const query = `
		SELECT status, COUNT(*) FROM jobs
		WHERE company_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY status ORDER BY status`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("job status counts: %w", err)
	}
	defer rows.Close()
	var results []repository.StatusCountResult
	for rows.Next() {
		var s repository.StatusCountResult
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// GetTopCustomers contactos con mayor facturación (canceladas excluidas).
func (r *AnalyticsRepo) GetTopCustomers(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.TopCustomerResult, error) {
	const query = `
		SELECT c.id, c.name, COUNT(i.id), COALESCE(SUM(i.grand_total), 0)
		FROM invoices i
		JOIN contacts c ON c.id = i.contact_id
		WHERE i.company_id = $1 AND i.status <> 'cancelada'
		  AND i.created_at >= $2 AND i.created_at < $3
		GROUP BY c.id, c.name
		ORDER BY SUM(i.grand_total) DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, companyID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()
	var results []repository.TopCustomerResult
	for rows.Next() {
		var t repository.TopCustomerResult
		if err := rows.Scan(&t.ContactID, &t.ContactName, &t.InvoiceCount, &t.TotalBilled); err != nil {
			return nil, fmt.Errorf("scan top customer: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}
