package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// IntegrationRepository define el puerto de persistencia para Integration.
type IntegrationRepository interface {
	// Upsert crea o reemplaza la configuración del proveedor para la empresa.
	Upsert(integration *entity.Integration) error
	GetByProvider(companyID, provider string) (*entity.Integration, error)
	ListByCompany(companyID string) ([]*entity.Integration, error)
	Deactivate(companyID, provider string) error
}
