package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/usecase"
)

// DocumentHandler maneja adjuntos (fotos de trabajo, PDFs, contratos).
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir adjunto
// @Description  Multipart: campo "file" más entity_type y entity_id. Máximo 10 MB.
// @Tags         documents
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true  "Archivo"
// @Param        entity_type  formData  string  true  "contact | job | estimate | invoice"
// @Param        entity_id    formData  string  true  "ID de la entidad"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "campo multipart 'file' requerido")
	}
	entityType := c.FormValue("entity_type")
	entityID := c.FormValue("entity_id")
	if entityType == "" || entityID == "" {
		return badRequest(c, "VALIDATION", "entity_type y entity_id son requeridos")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo leer el archivo")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo leer el archivo")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	out, err := h.uc.Upload(GetCompanyID(c), GetUserID(c), entityType, entityID, fileHeader.Filename, contentType, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar adjuntos de una entidad
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        entity_type  query  string  true  "contact | job | estimate | invoice"
// @Param        entity_id    query  string  true  "ID de la entidad"
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		return badRequest(c, "VALIDATION", "entity_type y entity_id son requeridos")
	}
	out, err := h.uc.List(GetCompanyID(c), entityType, entityID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar adjunto
// @Tags         documents
// @Security     Bearer
// @Param        id  path  string  true  "ID del adjunto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	doc, data, err := h.uc.Download(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Send(data)
}

// Delete godoc
// @Summary      Eliminar adjunto
// @Tags         documents
// @Security     Bearer
// @Param        id  path  string  true  "ID del adjunto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
