package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. vencida se deriva de DueDate, no se persiste.
const (
	InvoiceStatusBorrador = "borrador"
	InvoiceStatusEnviada  = "enviada"
	InvoiceStatusPagada   = "pagada"
	InvoiceStatusAnulada  = "anulada"
	InvoiceStatusVencida  = "vencida" // solo en respuestas, derivado
)

// Invoice representa la cabecera de una factura de servicios.
type Invoice struct {
	ID              string
	CompanyID       string
	ContactID       string
	JobID           *string
	EstimateID      *string // cotización aprobada de la que nació, si aplica
	Number          string  // consecutivo por empresa, ej. FAC-000107
	Status          string  // ver constantes InvoiceStatus*
	Subtotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	GrandTotal      decimal.Decimal
	Notes           string
	DueDate         *time.Time
	PaymentLinkURL  string  // link de pago de Stripe enviado al cliente
	StripeSessionID string  // checkout session asociada al link
	PaidAt          *time.Time
	PaymentRef      string // payment_intent u otro identificador del pago
	SentAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceItem línea de una factura.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje (0, 5, 19)
	Subtotal    decimal.Decimal // quantity * unit_price
	Position    int
}

// EffectiveStatus devuelve el estado visible: una factura enviada y
// con fecha de vencimiento pasada se reporta como vencida.
func (i *Invoice) EffectiveStatus(now time.Time) string {
	if i.Status == InvoiceStatusEnviada && i.DueDate != nil && now.After(*i.DueDate) {
		return InvoiceStatusVencida
	}
	return i.Status
}

// IsPaid indica si la factura ya fue pagada.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPagada
}
