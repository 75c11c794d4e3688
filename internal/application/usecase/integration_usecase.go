package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// IntegrationUseCase configuración de proveedores externos por empresa
// (SMTP, SMS, Stripe, IA). Los secretos nunca salen completos por la API.
type IntegrationUseCase struct {
	integrationRepo repository.IntegrationRepository
}

// NewIntegrationUseCase construye el caso de uso.
func NewIntegrationUseCase(integrationRepo repository.IntegrationRepository) *IntegrationUseCase {
	return &IntegrationUseCase{integrationRepo: integrationRepo}
}

// Upsert crea o actualiza la configuración del proveedor. Secret vacío
// conserva el secreto ya guardado.
func (uc *IntegrationUseCase) Upsert(companyID string, in dto.UpsertIntegrationRequest) (*dto.IntegrationResponse, error) {
	existing, err := uc.integrationRepo.GetByProvider(companyID, in.Provider)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	integration := &entity.Integration{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Provider:  in.Provider,
		Settings:  in.Settings,
		Secret:    in.Secret,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		integration.ID = existing.ID
		integration.CreatedAt = existing.CreatedAt
		if integration.Secret == "" {
			integration.Secret = existing.Secret
		}
	}
	if integration.Secret == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.integrationRepo.Upsert(integration); err != nil {
		return nil, err
	}
	return toIntegrationResponse(integration), nil
}

// List lista las integraciones configuradas de la empresa.
func (uc *IntegrationUseCase) List(companyID string) ([]dto.IntegrationResponse, error) {
	integrations, err := uc.integrationRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IntegrationResponse, 0, len(integrations))
	for _, i := range integrations {
		out = append(out, *toIntegrationResponse(i))
	}
	return out, nil
}

// Deactivate desactiva un proveedor sin borrar su configuración.
func (uc *IntegrationUseCase) Deactivate(companyID, provider string) error {
	existing, err := uc.integrationRepo.GetByProvider(companyID, provider)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return uc.integrationRepo.Deactivate(companyID, provider)
}

func toIntegrationResponse(i *entity.Integration) *dto.IntegrationResponse {
	hint := ""
	if n := len(i.Secret); n > 4 {
		hint = "····" + i.Secret[n-4:]
	}
	return &dto.IntegrationResponse{
		ID:         i.ID,
		Provider:   i.Provider,
		Settings:   i.Settings,
		SecretHint: hint,
		IsActive:   i.IsActive,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}
