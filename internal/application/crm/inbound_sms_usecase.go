package crm

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// InboundSMSUseCase procesa los SMS entrantes del webhook del proveedor:
// casa el remitente con un contacto y avisa a los administradores.
type InboundSMSUseCase struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	publisher   ports.EventPublisher
}

// NewInboundSMSUseCase construye el caso de uso.
func NewInboundSMSUseCase(contactRepo repository.ContactRepository, userRepo repository.UserRepository, notifRepo repository.NotificationRepository, publisher ports.EventPublisher) *InboundSMSUseCase {
	return &InboundSMSUseCase{contactRepo: contactRepo, userRepo: userRepo, notifRepo: notifRepo, publisher: publisher}
}

// HandleInbound registra el SMS entrante. fromPhone en E.164. Si ningún
// contacto casa con el número, la notificación lo reporta como desconocido.
func (uc *InboundSMSUseCase) HandleInbound(companyID, fromPhone, body string) error {
	fromPhone = strings.TrimSpace(fromPhone)
	if fromPhone == "" || strings.TrimSpace(body) == "" {
		return domain.ErrInvalidInput
	}
	contact, err := uc.contactRepo.GetByCompanyAndPhone(companyID, fromPhone)
	if err != nil {
		return err
	}
	sender := fromPhone
	entityID := ""
	if contact != nil {
		sender = contact.Name
		entityID = contact.ID
	} else {
		log.Warn().Str("company_id", companyID).Str("from", fromPhone).
			Msg("SMS entrante de número desconocido")
	}

	admins, err := uc.userRepo.ListByCompany(companyID, entity.RoleAdmin, "active", 50, 0)
	if err != nil {
		return err
	}
	now := time.Now()
	title := fmt.Sprintf("SMS de %s", sender)
	for _, admin := range admins {
		notif := &entity.Notification{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			UserID:    admin.ID,
			Type:      entity.NotifInboundSMS,
			Title:     title,
			Body:      body,
			EntityID:  entityID,
			CreatedAt: now,
		}
		if err := uc.notifRepo.Create(notif); err != nil {
			return err
		}
	}
	uc.publisher.PublishToCompany(companyID, dto.RealtimeEvent{
		Type: entity.NotifInboundSMS,
		Payload: map[string]string{
			"from": fromPhone, "sender": sender, "body": body, "contact_id": entityID,
		},
	})
	return nil
}
