package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (incluye técnicos y clientes del portal).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// ListByCompany lista usuarios de la empresa; role o status vacíos = sin filtro.
	ListByCompany(companyID, role, status string, limit, offset int) ([]*entity.User, error)
	Update(user *entity.User) error
}
