package repository

import (
	"context"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company y sus módulos SaaS.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	Update(company *entity.Company) error

	// Módulos SaaS por empresa
	ListModules(companyID string) ([]*entity.CompanyModule, error)
	ActivateModule(module *entity.CompanyModule) error
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}
