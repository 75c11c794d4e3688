package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.ChatRepository = (*ChatRepo)(nil)

// ChatRepo implementación de ChatRepository.
type ChatRepo struct {
	q Querier
}

// NewChatRepository construye el adaptador.
func NewChatRepository(q Querier) *ChatRepo {
	return &ChatRepo{q: q}
}

// CreateConversation persiste una conversación nueva.
func (r *ChatRepo) CreateConversation(c *entity.Conversation) error {
	query := `
		INSERT INTO conversations (id, company_id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// GetConversation obtiene una conversación por ID.
func (r *ChatRepo) GetConversation(id string) (*entity.Conversation, error) {
	var c entity.Conversation
	err := r.q.QueryRow(context.Background(), `
		SELECT id, company_id, user_id, title, created_at, updated_at
		FROM conversations WHERE id = $1`, id).Scan(
		&c.ID, &c.CompanyID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// ListConversationsByUser lista conversaciones del usuario, más recientes primero.
func (r *ChatRepo) ListConversationsByUser(userID string, limit, offset int) ([]*entity.Conversation, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, company_id, user_id, title, created_at, updated_at
		FROM conversations WHERE user_id = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Conversation
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CreateMessage persiste un mensaje de la conversación.
func (r *ChatRepo) CreateMessage(m *entity.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, conversation_id, role, content, intent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ConversationID, m.Role, m.Content, m.Intent, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListMessages devuelve los mensajes en orden cronológico.
func (r *ChatRepo) ListMessages(conversationID string, limit int) ([]*entity.ChatMessage, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, conversation_id, role, content, intent, created_at
		FROM chat_messages WHERE conversation_id = $1
		ORDER BY created_at LIMIT $2`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChatMessage
	for rows.Next() {
		var m entity.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Intent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// TouchConversation actualiza updated_at (la conversación sube en el listado).
func (r *ChatRepo) TouchConversation(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE conversations SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}
