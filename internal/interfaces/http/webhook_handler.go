package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/application/crm"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
)

// WebhookHandler recibe los callbacks de proveedores externos. Estas rutas
// son públicas: la autenticación es la firma de Stripe o el token compartido
// del proveedor de SMS, nunca el JWT de la aplicación.
type WebhookHandler struct {
	paymentSvc      ports.PaymentService
	invoiceUC       *billing.InvoiceUseCase
	inboundSMS      *crm.InboundSMSUseCase
	smsWebhookToken string
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(paymentSvc ports.PaymentService, invoiceUC *billing.InvoiceUseCase, inboundSMS *crm.InboundSMSUseCase, smsWebhookToken string) *WebhookHandler {
	return &WebhookHandler{
		paymentSvc:      paymentSvc,
		invoiceUC:       invoiceUC,
		inboundSMS:      inboundSMS,
		smsWebhookToken: smsWebhookToken,
	}
}

// Stripe godoc
// @Summary      Webhook de Stripe
// @Description  Marca la factura como pagada cuando llega checkout.session.completed. Idempotente.
// @Tags         webhooks
// @Accept       json
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	event, err := h.paymentSvc.ParseWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("webhook: firma de Stripe inválida")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma inválida"})
	}
	var markErr error
	switch {
	case event.Type == "checkout.session.completed" && event.SessionID != "":
		markErr = h.invoiceUC.MarkPaidBySession(c.Context(), event.SessionID, event.PaymentRef)
	case event.Type == "payment_intent.succeeded" && event.InvoiceID != "":
		markErr = h.invoiceUC.MarkPaidByID(c.Context(), event.InvoiceID, event.PaymentRef)
	}
	if markErr != nil {
		// 500 para que Stripe reintente la entrega.
		log.Error().Err(markErr).Str("event_type", event.Type).Msg("webhook: marcar factura pagada")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}

// inboundSMSPayload cuerpo del webhook de SMS entrante (formato Twilio:
// form-encoded From/Body; también se acepta JSON con los mismos campos).
type inboundSMSPayload struct {
	From string `json:"From" form:"From"`
	Body string `json:"Body" form:"Body"`
}

// InboundSMS godoc
// @Summary      Webhook de SMS entrante
// @Description  Registra la respuesta del contacto y notifica a los admins de la empresa.
// @Tags         webhooks
// @Accept       x-www-form-urlencoded
// @Param        companyID  path   string  true  "ID de la empresa destino"
// @Param        token      query  string  true  "Token compartido del webhook"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /webhooks/sms/{companyID} [post]
func (h *WebhookHandler) InboundSMS(c *fiber.Ctx) error {
	token := c.Query("token")
	if h.smsWebhookToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.smsWebhookToken)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token de webhook inválido"})
	}
	var in inboundSMSPayload
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.From == "" || in.Body == "" {
		return badRequest(c, "VALIDATION", "From y Body son requeridos")
	}
	if err := h.inboundSMS.HandleInbound(c.Params("companyID"), in.From, in.Body); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
