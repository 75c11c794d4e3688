// Package billing contiene los casos de uso de cotizaciones y facturas de servicio.
package billing

import (
	"context"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de
// cotización y factura. Aprobar una cotización y crear la factura borrador
// que nace de ella debe ser atómico.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		estimateRepo repository.EstimateRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// DocumentPDFGenerator genera la representación gráfica (PDF) de
// cotizaciones y facturas. Implementado en infrastructure/pdf con Maroto.
type DocumentPDFGenerator interface {
	GenerateEstimatePDF(ctx context.Context, company *entity.Company, contact *entity.Contact, estimate *entity.Estimate, items []entity.EstimateItem) ([]byte, error)
	GenerateInvoicePDF(ctx context.Context, company *entity.Company, contact *entity.Contact, invoice *entity.Invoice, items []entity.InvoiceItem) ([]byte, error)
}
