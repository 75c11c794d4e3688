package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/chat"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
)

// ChatHandler expone el asistente del negocio por REST. La variante
// WebSocket vive en ws_handler.go y comparte el mismo use case.
type ChatHandler struct {
	uc *chat.UseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *chat.UseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Ask godoc
// @Summary      Preguntar al asistente
// @Description  Sin conversation_id abre una conversación nueva. Preguntas de agenda, facturas pendientes y pipeline se responden con datos de la empresa.
// @Tags         chat
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "conversation_id opcional y message"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var in dto.ChatRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Message == "" {
		return badRequest(c, "VALIDATION", "message es requerido")
	}
	out, err := h.uc.Ask(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListConversations godoc
// @Summary      Listar conversaciones del usuario
// @Tags         chat
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.ConversationResponse
// @Router       /api/chat/conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválida")
	}
	out, err := h.uc.ListConversations(GetUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMessages godoc
// @Summary      Historial de una conversación
// @Tags         chat
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la conversación"
// @Success      200  {array}  dto.ChatMessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/chat/conversations/{id} [get]
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	out, err := h.uc.GetMessages(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
