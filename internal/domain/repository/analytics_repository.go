package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenueResult ingresos facturados de un mes.
type MonthlyRevenueResult struct {
	Year    int
	Month   int
	Revenue decimal.Decimal // total facturado (pagado) del mes
	Billed  decimal.Decimal // total emitido del mes (pagado o no)
}

// StatusCountResult conteo de órdenes por estado.
type StatusCountResult struct {
	Status string
	Count  int64
}

// TopCustomerResult contacto con mayor facturación del período.
type TopCustomerResult struct {
	ContactID   string
	ContactName string
	InvoiceCount int64
	TotalBilled decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	GetRevenueByMonth(ctx context.Context, companyID string, from, to time.Time) ([]MonthlyRevenueResult, error)
	GetJobStatusCounts(ctx context.Context, companyID string, from, to time.Time) ([]StatusCountResult, error)
	GetTopCustomers(ctx context.Context, companyID string, from, to time.Time, limit int) ([]TopCustomerResult, error)
}
