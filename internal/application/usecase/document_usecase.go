package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// maxDocumentSize tamaño máximo de un adjunto (10 MB).
const maxDocumentSize = 10 << 20

// tipos de entidad válidos para adjuntar documentos.
var validDocEntities = map[string]bool{
	entity.DocEntityContact:  true,
	entity.DocEntityJob:      true,
	entity.DocEntityEstimate: true,
	entity.DocEntityInvoice:  true,
}

// DocumentUseCase adjuntos de contactos, órdenes, cotizaciones y facturas.
type DocumentUseCase struct {
	docRepo repository.DocumentRepository
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(docRepo repository.DocumentRepository) *DocumentUseCase {
	return &DocumentUseCase{docRepo: docRepo}
}

// Upload guarda un archivo adjunto a una entidad del CRM.
func (uc *DocumentUseCase) Upload(companyID, userID, entityType, entityID, fileName, contentType string, data []byte) (*dto.DocumentResponse, error) {
	if !validDocEntities[entityType] || entityID == "" || fileName == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(data) == 0 || len(data) > maxDocumentSize {
		return nil, domain.ErrInvalidInput
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	doc := &entity.Document{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		EntityType:  entityType,
		EntityID:    entityID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}
	if err := uc.docRepo.Create(doc, data); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// List lista los adjuntos de una entidad.
func (uc *DocumentUseCase) List(companyID, entityType, entityID string) ([]dto.DocumentResponse, error) {
	if !validDocEntities[entityType] {
		return nil, domain.ErrInvalidInput
	}
	docs, err := uc.docRepo.ListByEntity(companyID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *toDocumentResponse(d))
	}
	return out, nil
}

// Download devuelve metadatos y bytes de un documento de la empresa.
func (uc *DocumentUseCase) Download(companyID, id string) (*dto.DocumentResponse, []byte, error) {
	doc, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := uc.docRepo.GetData(id)
	if err != nil {
		return nil, nil, err
	}
	if data == nil {
		return nil, nil, domain.ErrNotFound
	}
	return toDocumentResponse(doc), data, nil
}

// Delete elimina un documento de la empresa.
func (uc *DocumentUseCase) Delete(companyID, id string) error {
	if _, err := uc.getOwned(companyID, id); err != nil {
		return err
	}
	return uc.docRepo.Delete(id)
}

func (uc *DocumentUseCase) getOwned(companyID, id string) (*entity.Document, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:          d.ID,
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}
