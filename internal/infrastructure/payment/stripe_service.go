// Package payment implementa el puerto PaymentService con Stripe Checkout.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
)

var _ ports.PaymentService = (*StripeService)(nil)

// Config credenciales y URLs de la pasarela.
type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string // página a la que vuelve el cliente tras pagar
}

// StripeService adaptador de Stripe: crea checkout sessions como links de
// pago de facturas y verifica los webhooks entrantes.
type StripeService struct {
	cfg Config
}

// NewStripeService construye el adaptador y fija la API key global del SDK.
func NewStripeService(cfg Config) *StripeService {
	stripe.Key = cfg.SecretKey
	return &StripeService{cfg: cfg}
}

// CreatePaymentLink crea una checkout session de pago único por el total de
// la factura. El invoice_id viaja en metadata para trazabilidad.
func (s *StripeService) CreatePaymentLink(ctx context.Context, in ports.PaymentLinkInput) (*ports.PaymentLink, error) {
	if s.cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: STRIPE_SECRET_KEY no configurado")
	}
	currency := in.Currency
	if currency == "" {
		currency = "cop"
	}
	// Stripe espera la unidad mínima de la moneda; COP no tiene centavos.
	amount := in.Amount.Round(0).IntPart()
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(in.CustomerEmail),
		SuccessURL:    stripe.String(s.cfg.SuccessURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Factura %s — %s", in.InvoiceNumber, in.CompanyName)),
					},
				},
			},
		},
	}
	params.Context = ctx
	// invoice_id viaja en la sesión y en el payment intent: ambos eventos
	// del webhook pueden resolver la factura.
	params.Metadata = map[string]string{"invoice_id": in.InvoiceID}
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		Metadata: map[string]string{"invoice_id": in.InvoiceID},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: crear checkout session: %w", err)
	}
	return &ports.PaymentLink{URL: sess.URL, SessionID: sess.ID}, nil
}

// ParseWebhookEvent verifica la firma del webhook y extrae la sesión pagada.
// Eventos que no son de checkout devuelven PaymentEvent con solo el tipo.
func (s *StripeService) ParseWebhookEvent(payload []byte, signatureHeader string) (*ports.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe: firma del webhook inválida: %w", err)
	}
	out := &ports.PaymentEvent{Type: string(event.Type)}
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: deserializar checkout session: %w", err)
		}
		out.SessionID = sess.ID
		out.InvoiceID = sess.Metadata["invoice_id"]
		if sess.PaymentIntent != nil {
			out.PaymentRef = sess.PaymentIntent.ID
		}
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("stripe: deserializar payment intent: %w", err)
		}
		out.PaymentRef = pi.ID
		out.InvoiceID = pi.Metadata["invoice_id"]
	}
	return out, nil
}
