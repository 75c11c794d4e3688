package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de cotizaciones y facturas
// para descarga directa desde la API.
type PDFUseCase struct {
	estimateRepo repository.EstimateRepository
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	contactRepo  repository.ContactRepository
	generator    DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	estimateRepo repository.EstimateRepository,
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	generator DocumentPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		contactRepo:  contactRepo,
		generator:    generator,
	}
}

// DownloadEstimatePDF genera el PDF de una cotización de la empresa.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la cotización no existe.
//   - domain.ErrForbidden        si no pertenece a la empresa del token.
func (uc *PDFUseCase) DownloadEstimatePDF(ctx context.Context, companyID, estimateID string) (pdfBytes []byte, filename string, err error) {
	estimate, err := uc.estimateRepo.GetByID(estimateID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cotización: %w", err)
	}
	if estimate == nil {
		return nil, "", domain.ErrNotFound
	}
	if estimate.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	contact, err := uc.contactRepo.GetByID(estimate.ContactID)
	if err != nil || contact == nil {
		return nil, "", fmt.Errorf("pdf: obtener contacto: %w", err)
	}
	items, err := uc.estimateRepo.GetItems(estimateID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateEstimatePDF(ctx, company, contact, estimate, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, estimate.Number + ".pdf", nil
}

// DownloadInvoicePDF genera el PDF de una factura de la empresa.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if invoice == nil {
		return nil, "", domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	contact, err := uc.contactRepo.GetByID(invoice.ContactID)
	if err != nil || contact == nil {
		return nil, "", fmt.Errorf("pdf: obtener contacto: %w", err)
	}
	items, err := uc.invoiceRepo.GetItems(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, company, contact, invoice, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, invoice.Number + ".pdf", nil
}
