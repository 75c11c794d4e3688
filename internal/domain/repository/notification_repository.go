package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	// ListByUser lista notificaciones del usuario, más recientes primero.
	ListByUser(userID string, onlyUnread bool, limit, offset int) ([]*entity.Notification, error)
	CountUnread(userID string) (int64, error)
	// MarkRead marca como leída solo si pertenece al usuario.
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
}
