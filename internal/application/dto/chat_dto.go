package dto

import "time"

// ChatRequest mensaje del usuario al asistente. ConversationID vacío abre
// una conversación nueva.
type ChatRequest struct {
	ConversationID string `json:"conversation_id" validate:"omitempty,uuid"`
	Message        string `json:"message" validate:"required,min=1,max=4000"`
}

// ChatResponse respuesta del asistente.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	Intent         string `json:"intent"`
}

// ConversationResponse hilo de chat en listados.
type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessageResponse mensaje dentro de una conversación.
type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
