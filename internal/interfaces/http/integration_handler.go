package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/usecase"
)

// IntegrationHandler maneja la configuración de proveedores externos por
// empresa (smtp, sms, stripe, ai). Los secretos nunca se devuelven completos.
type IntegrationHandler struct {
	uc *usecase.IntegrationUseCase
}

// NewIntegrationHandler construye el handler.
func NewIntegrationHandler(uc *usecase.IntegrationUseCase) *IntegrationHandler {
	return &IntegrationHandler{uc: uc}
}

// Upsert godoc
// @Summary      Configurar integración
// @Description  Crea o actualiza la configuración del proveedor. Secret vacío conserva el guardado.
// @Tags         integrations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertIntegrationRequest  true  "provider, settings, secret"
// @Success      200   {object}  dto.IntegrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/integrations [put]
func (h *IntegrationHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertIntegrationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Provider == "" {
		return badRequest(c, "VALIDATION", "provider es requerido")
	}
	out, err := h.uc.Upsert(GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar integraciones de la empresa
// @Tags         integrations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.IntegrationResponse
// @Router       /api/integrations [get]
func (h *IntegrationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar integración
// @Tags         integrations
// @Security     Bearer
// @Param        provider  path  string  true  "smtp | sms | stripe | ai"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/integrations/{provider} [delete]
func (h *IntegrationHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(GetCompanyID(c), c.Params("provider")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
