package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenueDTO punto de la serie de ingresos mensuales.
type MonthlyRevenueDTO struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"` // facturado y pagado
	Billed  decimal.Decimal `json:"billed"`  // emitido (pagado o no)
}

// JobStatusCountDTO conteo de órdenes por estado.
type JobStatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TopCustomerDTO contacto con mayor facturación del período.
type TopCustomerDTO struct {
	ContactID    string          `json:"contact_id"`
	ContactName  string          `json:"contact_name"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
}

// DashboardQuery rango de fechas del dashboard; vacío = últimos 12 meses.
type DashboardQuery struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

// DashboardSummaryDTO resumen del dashboard de la empresa.
type DashboardSummaryDTO struct {
	RevenueByMonth  []MonthlyRevenueDTO `json:"revenue_by_month"`
	JobStatusCounts []JobStatusCountDTO `json:"job_status_counts"`
	TopCustomers    []TopCustomerDTO    `json:"top_customers"`
	Pipeline        []PipelineStageDTO  `json:"pipeline"`
	DateLabel       string              `json:"date_label"`
}
