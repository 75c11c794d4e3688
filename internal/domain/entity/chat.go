package entity

import "time"

// Roles de los mensajes del asistente.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Intenciones que el clasificador reconoce sin llamar al LLM.
const (
	IntentAgenda          = "agenda"           // "¿qué visitas tengo hoy?"
	IntentUnpaidInvoices  = "facturas_pendientes"
	IntentPipeline        = "pipeline"
	IntentGeneral         = "general"          // sin intención conocida: responde el LLM
)

// Conversation hilo de chat de un usuario con el asistente.
type Conversation struct {
	ID        string
	CompanyID string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage mensaje dentro de una conversación.
type ChatMessage struct {
	ID             string
	ConversationID string
	Role           string // user | assistant
	Content        string
	Intent         string // intención detectada para el mensaje del usuario
	CreatedAt      time.Time
}
