package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository. Los bytes viven en la misma
// tabla (bytea); los listados nunca cargan la columna data.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, company_id, entity_type, entity_id, file_name, content_type, size_bytes, uploaded_by, created_at`

// Create persiste metadatos y bytes del documento.
func (r *DocumentRepo) Create(doc *entity.Document, data []byte) error {
	query := `
		INSERT INTO documents (` + documentColumns + `, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.EntityType, doc.EntityID, doc.FileName,
		doc.ContentType, doc.SizeBytes, doc.UploadedBy, doc.CreatedAt, data,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene los metadatos de un documento.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	var d entity.Document
	err := r.q.QueryRow(context.Background(),
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id).Scan(
		&d.ID, &d.CompanyID, &d.EntityType, &d.EntityID, &d.FileName,
		&d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// GetData devuelve los bytes del archivo; nil si no existe.
func (r *DocumentRepo) GetData(id string) ([]byte, error) {
	var data []byte
	err := r.q.QueryRow(context.Background(),
		`SELECT data FROM documents WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document data: %w", err)
	}
	return data, nil
}

// ListByEntity lista los documentos adjuntos a una entidad.
func (r *DocumentRepo) ListByEntity(companyID, entityType, entityID string) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE company_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, companyID, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.EntityType, &d.EntityID, &d.FileName,
			&d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Delete elimina un documento por ID.
func (r *DocumentRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
