package repository

import (
	"context"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice, items []entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]entity.InvoiceItem, error)
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Invoice, error)
	ListByContact(contactID string, limit, offset int) ([]*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
	// GetByStripeSession localiza la factura por el checkout session del link de pago.
	GetByStripeSession(sessionID string) (*entity.Invoice, error)
	// NextNumber reserva el siguiente consecutivo de factura de la empresa.
	NextNumber(ctx context.Context, companyID string) (int64, error)
}
