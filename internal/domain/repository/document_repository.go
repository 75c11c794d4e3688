package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para Document (metadatos + bytes).
type DocumentRepository interface {
	Create(doc *entity.Document, data []byte) error
	GetByID(id string) (*entity.Document, error)
	// GetData devuelve los bytes del archivo; nil si no existe.
	GetData(id string) ([]byte, error)
	ListByEntity(companyID, entityType, entityID string) ([]*entity.Document, error)
	Delete(id string) error
}
