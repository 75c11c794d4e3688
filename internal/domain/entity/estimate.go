package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	EstimateStatusBorrador  = "borrador"
	EstimateStatusEnviada   = "enviada"
	EstimateStatusAprobada  = "aprobada"
	EstimateStatusRechazada = "rechazada"
	EstimateStatusVencida   = "vencida"
)

// Estimate representa una cotización enviada a un contacto, opcionalmente ligada a una orden.
type Estimate struct {
	ID         string
	CompanyID  string
	ContactID  string
	JobID      *string
	Number     string // consecutivo por empresa, ej. COT-000042
	Status     string // ver constantes EstimateStatus*
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	Notes      string
	ValidUntil *time.Time
	SentAt     *time.Time
	DecidedAt  *time.Time // fecha de aprobación o rechazo del cliente
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EstimateItem línea de una cotización. El IVA se expresa como porcentaje (0, 5, 19).
type EstimateItem struct {
	ID          string
	EstimateID  string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje
	Subtotal    decimal.Decimal // quantity * unit_price
	Position    int             // orden de la línea en el documento
}

// IsExpired indica si la cotización pasó su fecha de validez sin decisión.
func (e *Estimate) IsExpired(now time.Time) bool {
	return e.ValidUntil != nil && now.After(*e.ValidUntil) &&
		(e.Status == EstimateStatusBorrador || e.Status == EstimateStatusEnviada)
}
