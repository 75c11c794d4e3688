package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/ServiCampo-api/internal/application/chat"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/infrastructure/realtime"
	"github.com/jhoicas/ServiCampo-api/pkg/jwt"
)

// chatAskTimeout límite por pregunta sobre la conexión WebSocket.
const chatAskTimeout = 30 * time.Second

// WSHandler maneja las dos rutas WebSocket: /ws/events (push de eventos en
// tiempo real) y /ws/chat (asistente conversacional). Los navegadores no
// pueden fijar headers en el upgrade, así que el JWT viaja en ?token=.
type WSHandler struct {
	hub       *realtime.Hub
	chatUC    *chat.UseCase
	jwtSecret string
}

// NewWSHandler construye el handler.
func NewWSHandler(hub *realtime.Hub, chatUC *chat.UseCase, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, chatUC: chatUC, jwtSecret: jwtSecret}
}

// Upgrade middleware previo: valida que sea un upgrade WebSocket y autentica
// el token de la query antes de aceptar la conexión.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, companyID, role, err := jwt.Parse(h.jwtSecret, c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalCompanyID, companyID)
	c.Locals(LocalRole, role)
	return c.Next()
}

// Events mantiene la conexión registrada en el hub hasta que el cliente la
// cierra. El servidor solo escribe; lo que llegue del cliente se descarta.
func (h *WSHandler) Events() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(LocalUserID).(string)
		companyID, _ := conn.Locals(LocalCompanyID).(string)
		client := h.hub.Register(companyID, userID, conn)
		defer func() {
			h.hub.Unregister(client)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// Chat atiende el asistente por WebSocket: cada mensaje entrante es un
// dto.ChatRequest y la respuesta un dto.ChatResponse sobre la misma conexión.
func (h *WSHandler) Chat() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(LocalUserID).(string)
		companyID, _ := conn.Locals(LocalCompanyID).(string)
		defer conn.Close()
		for {
			var in dto.ChatRequest
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			if in.Message == "" {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), chatAskTimeout)
			out, err := h.chatUC.Ask(ctx, companyID, userID, in)
			cancel()
			if err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("ws: asistente falló")
				if werr := conn.WriteJSON(dto.ErrorResponse{Code: "CHAT_FAILED", Message: "no se pudo responder, intente de nuevo"}); werr != nil {
					return
				}
				continue
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		}
	})
}
