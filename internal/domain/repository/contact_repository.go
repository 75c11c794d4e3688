package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// ContactRepository define el puerto de persistencia para Contact.
type ContactRepository interface {
	Create(contact *entity.Contact) error
	GetByID(id string) (*entity.Contact, error)
	GetByCompanyAndEmail(companyID, email string) (*entity.Contact, error)
	// GetByCompanyAndPhone casa SMS entrantes con el contacto; phone en E.164.
	GetByCompanyAndPhone(companyID, phone string) (*entity.Contact, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error)
	// Search busca por nombre/email/teléfono; pattern ya viene normalizado (textutil.FoldPattern).
	Search(companyID, pattern string, limit, offset int) ([]*entity.Contact, error)
	Update(contact *entity.Contact) error
	Delete(id string) error
}
