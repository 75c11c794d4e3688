package repository

import (
	"context"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// EstimateRepository define el puerto de persistencia para Estimate y sus líneas.
type EstimateRepository interface {
	// Create persiste cabecera y líneas. Llamar dentro de una transacción si
	// el caso de uso toca más tablas.
	Create(estimate *entity.Estimate, items []entity.EstimateItem) error
	GetByID(id string) (*entity.Estimate, error)
	GetItems(estimateID string) ([]entity.EstimateItem, error)
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Estimate, error)
	ListByContact(contactID string, limit, offset int) ([]*entity.Estimate, error)
	Update(estimate *entity.Estimate) error
	// NextNumber reserva el siguiente consecutivo de cotización de la empresa.
	NextNumber(ctx context.Context, companyID string) (int64, error)
}
