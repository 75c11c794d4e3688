package usecase

import (
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// NotificationUseCase lectura y marcado de notificaciones in-app.
type NotificationUseCase struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(notifRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifRepo: notifRepo}
}

// List lista las notificaciones del usuario con el conteo de no leídas.
func (uc *NotificationUseCase) List(userID string, onlyUnread bool, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage()
	notifications, err := uc.notifRepo.ListByUser(userID, onlyUnread, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.notifRepo.CountUnread(userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}
	return resp, nil
}

// MarkRead marca una notificación del usuario como leída.
func (uc *NotificationUseCase) MarkRead(userID, id string) error {
	return uc.notifRepo.MarkRead(id, userID)
}

// MarkAllRead marca todas las del usuario como leídas.
func (uc *NotificationUseCase) MarkAllRead(userID string) error {
	return uc.notifRepo.MarkAllRead(userID)
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		EntityID:  n.EntityID,
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
