package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentLinkInput datos para crear un link de pago de una factura.
type PaymentLinkInput struct {
	InvoiceID     string
	InvoiceNumber string
	CompanyName   string
	CustomerEmail string
	Amount        decimal.Decimal // total en COP
	Currency      string          // "cop" por defecto
}

// PaymentLink resultado de crear el link: URL pública y sesión asociada.
type PaymentLink struct {
	URL       string
	SessionID string
}

// PaymentEvent evento de pago recibido por webhook, ya verificado.
// InvoiceID viene de la metadata que viaja en la checkout session y se
// propaga al payment intent.
type PaymentEvent struct {
	Type       string // checkout.session.completed, payment_intent.succeeded, ...
	SessionID  string
	InvoiceID  string
	PaymentRef string // payment_intent
}

// PaymentService puerto de salida hacia la pasarela de pagos.
type PaymentService interface {
	// CreatePaymentLink crea una checkout session y devuelve el link de pago.
	CreatePaymentLink(ctx context.Context, in PaymentLinkInput) (*PaymentLink, error)
	// ParseWebhookEvent verifica la firma del webhook y devuelve el evento.
	// Firma inválida retorna error; el handler debe responder 400.
	ParseWebhookEvent(payload []byte, signatureHeader string) (*PaymentEvent, error)
}
