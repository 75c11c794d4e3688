package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// CompanyUseCase casos de uso de empresas (tenants) y sus módulos SaaS.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// Create registra una empresa con el módulo CRM activo por defecto.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.NIT) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		NIT:       strings.TrimSpace(in.NIT),
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}
	// Toda empresa nace con el CRM activo; el resto se contrata aparte.
	_ = uc.companyRepo.ActivateModule(&entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		ModuleName:  entity.ModuleCRM,
		IsActive:    true,
		ActivatedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// Update edita los datos de la empresa; campos nil no se tocan.
func (uc *CompanyUseCase) Update(id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.City != nil {
		company.City = *in.City
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ListModules lista los módulos activados de la empresa.
func (uc *CompanyUseCase) ListModules(companyID string) ([]dto.ModuleResponse, error) {
	modules, err := uc.companyRepo.ListModules(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, dto.ModuleResponse{
			ModuleName:  m.ModuleName,
			IsActive:    m.IsActive,
			ActivatedAt: m.ActivatedAt,
			ExpiresAt:   m.ExpiresAt,
		})
	}
	return out, nil
}

// ActivateModule activa (o reactiva) un módulo SaaS para la empresa.
func (uc *CompanyUseCase) ActivateModule(companyID string, in dto.ActivateModuleRequest) (*dto.ModuleResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	module := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  in.ModuleName,
		IsActive:    true,
		ActivatedAt: now,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.companyRepo.ActivateModule(module); err != nil {
		return nil, err
	}
	return &dto.ModuleResponse{
		ModuleName:  module.ModuleName,
		IsActive:    module.IsActive,
		ActivatedAt: module.ActivatedAt,
		ExpiresAt:   module.ExpiresAt,
	}, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		City:      c.City,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
