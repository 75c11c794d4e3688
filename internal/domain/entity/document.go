package entity

import "time"

// Tipos de entidad a los que puede adjuntarse un documento.
const (
	DocEntityContact  = "contact"
	DocEntityJob      = "job"
	DocEntityEstimate = "estimate"
	DocEntityInvoice  = "invoice"
)

// Document representa un archivo adjunto a una entidad del CRM.
// Los bytes se guardan en la misma base (bytea); no hay object store.
type Document struct {
	ID          string
	CompanyID   string
	EntityType  string // ver constantes DocEntity*
	EntityID    string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploadedBy  string // user_id
	CreatedAt   time.Time
}
