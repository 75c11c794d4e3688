// Package crm contiene los casos de uso del módulo CRM: contactos y pipeline de ventas.
package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
	"github.com/jhoicas/ServiCampo-api/pkg/textutil"
)

// ContactUseCase casos de uso de contactos del CRM.
type ContactUseCase struct {
	contactRepo repository.ContactRepository
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(contactRepo repository.ContactRepository) *ContactUseCase {
	return &ContactUseCase{contactRepo: contactRepo}
}

// Create crea un contacto. Si ya existe uno con el mismo email en la empresa
// devuelve ErrDuplicate.
func (uc *ContactUseCase) Create(companyID string, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != "" {
		if existing, _ := uc.contactRepo.GetByCompanyAndEmail(companyID, in.Email); existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	contact := &entity.Contact{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   in.Address,
		City:      in.City,
		Source:    in.Source,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.contactRepo.Create(contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// GetByID obtiene un contacto verificando que pertenece a la empresa.
func (uc *ContactUseCase) GetByID(companyID, id string) (*dto.ContactResponse, error) {
	contact, err := uc.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	if contact.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toContactResponse(contact), nil
}

// List lista contactos de la empresa. Si search no es vacío busca por
// nombre (sin tildes), email o teléfono.
func (uc *ContactUseCase) List(companyID, search string, page dto.PageRequest) ([]dto.ContactResponse, error) {
	page.DefaultPage()
	var (
		contacts []*entity.Contact
		err      error
	)
	if strings.TrimSpace(search) != "" {
		contacts, err = uc.contactRepo.Search(companyID, textutil.FoldPattern(search), page.Limit, page.Offset)
	} else {
		contacts, err = uc.contactRepo.ListByCompany(companyID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, *toContactResponse(c))
	}
	return out, nil
}

// Update edita un contacto; campos nil no se tocan.
func (uc *ContactUseCase) Update(companyID, id string, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	contact, err := uc.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	if contact.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		contact.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" && email != contact.Email {
			if existing, _ := uc.contactRepo.GetByCompanyAndEmail(companyID, email); existing != nil && existing.ID != id {
				return nil, domain.ErrDuplicate
			}
		}
		contact.Email = email
	}
	if in.Phone != nil {
		contact.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		contact.Address = *in.Address
	}
	if in.City != nil {
		contact.City = *in.City
	}
	if in.Source != nil {
		contact.Source = *in.Source
	}
	if in.Notes != nil {
		contact.Notes = *in.Notes
	}
	contact.UpdatedAt = time.Now()
	if err := uc.contactRepo.Update(contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// Delete elimina un contacto de la empresa.
func (uc *ContactUseCase) Delete(companyID, id string) error {
	contact, err := uc.contactRepo.GetByID(id)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrNotFound
	}
	if contact.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.contactRepo.Delete(id)
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		Source:    c.Source,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
