package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
)

// EstimateHandler maneja cotizaciones: CRUD, envío por email y decisión.
type EstimateHandler struct {
	uc    *billing.EstimateUseCase
	pdfUC *billing.PDFUseCase
}

// NewEstimateHandler construye el handler.
func NewEstimateHandler(uc *billing.EstimateUseCase, pdfUC *billing.PDFUseCase) *EstimateHandler {
	return &EstimateHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear cotización (borrador)
// @Tags         estimates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEstimateRequest  true  "Contacto y renglones"
// @Success      201   {object}  dto.EstimateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/estimates [post]
func (h *EstimateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEstimateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.ContactID == "" || len(in.Items) == 0 {
		return badRequest(c, "VALIDATION", "contact_id e items son requeridos")
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         estimates
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.EstimateResponse
// @Router       /api/estimates [get]
func (h *EstimateHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.uc.List(GetCompanyID(c), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización por ID
// @Tags         estimates
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.EstimateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estimates/{id} [get]
func (h *EstimateHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar cotización por email
// @Description  Genera el PDF, lo envía al contacto y marca la cotización como enviada.
// @Tags         estimates
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.EstimateResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/estimates/{id}/send [post]
func (h *EstimateHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Aprobar o rechazar cotización
// @Description  Aprobar genera automáticamente la factura con vencimiento a 30 días.
// @Tags         estimates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.DecideEstimateRequest  true  "aprobada | rechazada"
// @Success      200   {object}  dto.EstimateResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/estimates/{id}/decision [post]
func (h *EstimateHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecideEstimateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Decision == "" {
		return badRequest(c, "VALIDATION", "decision es requerida")
	}
	out, err := h.uc.Decide(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la cotización
// @Tags         estimates
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estimates/{id}/pdf [get]
func (h *EstimateHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadEstimatePDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
