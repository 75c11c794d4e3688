package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ModuleService resuelve el plan contratado: responde si una empresa
// tiene habilitado un módulo (crm, scheduling, billing, analytics,
// integrations). El middleware RequireModule consulta aquí.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule devuelve true si el módulo está contratado y no venció.
// Un módulo ausente es false sin error; el error queda reservado para
// fallos consultando la base.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}
