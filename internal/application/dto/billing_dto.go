package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de una cotización o factura. El IVA es porcentaje (0, 5, 19).
type LineItemRequest struct {
	Description string          `json:"description" validate:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Position    int             `json:"position"`
}

// CreateEstimateRequest entrada para crear una cotización.
type CreateEstimateRequest struct {
	ContactID  string            `json:"contact_id" validate:"required,uuid"`
	JobID      *string           `json:"job_id" validate:"omitempty,uuid"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string            `json:"notes" validate:"omitempty,max=2000"`
	ValidUntil *time.Time        `json:"valid_until"`
}

// DecideEstimateRequest decisión del cliente sobre una cotización enviada.
type DecideEstimateRequest struct {
	Decision string `json:"decision" validate:"required,oneof=aprobada rechazada"`
}

// EstimateResponse salida de una cotización con sus líneas.
type EstimateResponse struct {
	ID         string             `json:"id"`
	CompanyID  string             `json:"company_id"`
	ContactID  string             `json:"contact_id"`
	JobID      *string            `json:"job_id,omitempty"`
	Number     string             `json:"number"`
	Status     string             `json:"status"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	TaxTotal   decimal.Decimal    `json:"tax_total"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
	Notes      string             `json:"notes,omitempty"`
	ValidUntil *time.Time         `json:"valid_until,omitempty"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
	DecidedAt  *time.Time         `json:"decided_at,omitempty"`
	Items      []LineItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// CreateInvoiceRequest entrada para crear una factura manual (sin cotización).
type CreateInvoiceRequest struct {
	ContactID string            `json:"contact_id" validate:"required,uuid"`
	JobID     *string           `json:"job_id" validate:"omitempty,uuid"`
	Items     []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes     string            `json:"notes" validate:"omitempty,max=2000"`
	DueDate   *time.Time        `json:"due_date"`
}

// InvoiceResponse salida de una factura con sus líneas.
// Status es el estado efectivo: enviada + vencimiento pasado = vencida.
type InvoiceResponse struct {
	ID             string             `json:"id"`
	CompanyID      string             `json:"company_id"`
	ContactID      string             `json:"contact_id"`
	JobID          *string            `json:"job_id,omitempty"`
	EstimateID     *string            `json:"estimate_id,omitempty"`
	Number         string             `json:"number"`
	Status         string             `json:"status"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxTotal       decimal.Decimal    `json:"tax_total"`
	GrandTotal     decimal.Decimal    `json:"grand_total"`
	Notes          string             `json:"notes,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	PaymentLinkURL string             `json:"payment_link_url,omitempty"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	PaymentRef     string             `json:"payment_ref,omitempty"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	Items          []LineItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
