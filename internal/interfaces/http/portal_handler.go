package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/usecase"
)

// PortalHandler rutas del portal de cliente. Un usuario con rol cliente está
// vinculado a un Contact del CRM; solo ve documentos de ese contacto.
type PortalHandler struct {
	userUC     *usecase.UserUseCase
	estimateUC *billing.EstimateUseCase
	invoiceUC  *billing.InvoiceUseCase
}

// NewPortalHandler construye el handler.
func NewPortalHandler(userUC *usecase.UserUseCase, estimateUC *billing.EstimateUseCase, invoiceUC *billing.InvoiceUseCase) *PortalHandler {
	return &PortalHandler{userUC: userUC, estimateUC: estimateUC, invoiceUC: invoiceUC}
}

// contactID resuelve el contacto vinculado al usuario autenticado.
func (h *PortalHandler) contactID(c *fiber.Ctx) (string, error) {
	user, err := h.userUC.GetByID(GetCompanyID(c), GetUserID(c))
	if err != nil {
		return "", err
	}
	if user.ContactID == nil || *user.ContactID == "" {
		return "", fiber.NewError(fiber.StatusForbidden)
	}
	return *user.ContactID, nil
}

// MyEstimates godoc
// @Summary      Cotizaciones del cliente autenticado (portal cliente)
// @Tags         portal
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.EstimateResponse
// @Router       /api/portal/client/estimates [get]
func (h *PortalHandler) MyEstimates(c *fiber.Ctx) error {
	contactID, err := h.contactID(c)
	if err != nil {
		return h.respondPortalError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.estimateUC.ListByContact(contactID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MyInvoices godoc
// @Summary      Facturas del cliente autenticado (portal cliente)
// @Tags         portal
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.InvoiceResponse
// @Router       /api/portal/client/invoices [get]
func (h *PortalHandler) MyInvoices(c *fiber.Ctx) error {
	contactID, err := h.contactID(c)
	if err != nil {
		return h.respondPortalError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.invoiceUC.ListByContact(contactID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DecideEstimate godoc
// @Summary      Aprobar o rechazar una cotización propia (portal cliente)
// @Tags         portal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.DecideEstimateRequest  true  "aprobada | rechazada"
// @Success      200   {object}  dto.EstimateResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/portal/client/estimates/{id}/decision [post]
func (h *PortalHandler) DecideEstimate(c *fiber.Ctx) error {
	contactID, err := h.contactID(c)
	if err != nil {
		return h.respondPortalError(c, err)
	}
	var in dto.DecideEstimateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Decision == "" {
		return badRequest(c, "VALIDATION", "decision es requerida")
	}
	companyID := GetCompanyID(c)
	estimate, err := h.estimateUC.GetByID(companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if estimate.ContactID != contactID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la cotización no pertenece a este cliente"})
	}
	out, err := h.estimateUC.Decide(c.Context(), companyID, estimate.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// respondPortalError distingue el caso del usuario sin contacto vinculado.
func (h *PortalHandler) respondPortalError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusForbidden {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_CONTACT", Message: "el usuario no está vinculado a un contacto"})
	}
	return respondError(c, err)
}
