package ports

import "github.com/jhoicas/ServiCampo-api/internal/application/dto"

// EventPublisher puerto de salida para eventos en tiempo real (WebSocket).
// Publicar nunca bloquea al caso de uso: si el usuario no está conectado,
// el evento simplemente se descarta (la notificación in-app persiste aparte).
type EventPublisher interface {
	PublishToUser(userID string, event dto.RealtimeEvent)
	PublishToCompany(companyID string, event dto.RealtimeEvent)
}
