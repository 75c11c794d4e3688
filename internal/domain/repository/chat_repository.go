package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// ChatRepository define el puerto de persistencia para conversaciones del asistente.
type ChatRepository interface {
	CreateConversation(c *entity.Conversation) error
	GetConversation(id string) (*entity.Conversation, error)
	ListConversationsByUser(userID string, limit, offset int) ([]*entity.Conversation, error)
	CreateMessage(m *entity.ChatMessage) error
	// ListMessages devuelve los mensajes en orden cronológico.
	ListMessages(conversationID string, limit int) ([]*entity.ChatMessage, error)
	TouchConversation(id string) error
}
