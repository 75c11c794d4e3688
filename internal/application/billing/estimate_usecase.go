package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// invoiceDueDays plazo por defecto de la factura que nace de una cotización aprobada.
const invoiceDueDays = 30

var percentDivisor = decimal.NewFromInt(100)

// EstimateUseCase casos de uso de cotizaciones: crear, enviar por correo
// y registrar la decisión del cliente.
type EstimateUseCase struct {
	txRunner     TxRunner
	estimateRepo repository.EstimateRepository
	contactRepo  repository.ContactRepository
	companyRepo  repository.CompanyRepository
	jobRepo      repository.JobRepository
	emailSender  ports.EmailSender
	pdfGen       DocumentPDFGenerator
}

// NewEstimateUseCase construye el caso de uso.
func NewEstimateUseCase(
	txRunner TxRunner,
	estimateRepo repository.EstimateRepository,
	contactRepo repository.ContactRepository,
	companyRepo repository.CompanyRepository,
	jobRepo repository.JobRepository,
	emailSender ports.EmailSender,
	pdfGen DocumentPDFGenerator,
) *EstimateUseCase {
	return &EstimateUseCase{
		txRunner:     txRunner,
		estimateRepo: estimateRepo,
		contactRepo:  contactRepo,
		companyRepo:  companyRepo,
		jobRepo:      jobRepo,
		emailSender:  emailSender,
		pdfGen:       pdfGen,
	}
}

// Create crea una cotización borrador con su consecutivo COT-NNNNNN.
// Los totales se calculan siempre en el servidor a partir de las líneas.
func (uc *EstimateUseCase) Create(ctx context.Context, companyID string, in dto.CreateEstimateRequest) (*dto.EstimateResponse, error) {
	contact, err := uc.contactRepo.GetByID(in.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.JobID != nil {
		job, err := uc.jobRepo.GetByID(*in.JobID)
		if err != nil {
			return nil, err
		}
		if job == nil || job.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}
	items, subtotal, taxTotal, err := buildLineItems(in.Items)
	if err != nil {
		return nil, err
	}

	seq, err := uc.estimateRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	estimate := &entity.Estimate{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ContactID:  in.ContactID,
		JobID:      in.JobID,
		Number:     fmt.Sprintf("COT-%06d", seq),
		Status:     entity.EstimateStatusBorrador,
		Subtotal:   subtotal,
		TaxTotal:   taxTotal,
		GrandTotal: subtotal.Add(taxTotal),
		Notes:      in.Notes,
		ValidUntil: in.ValidUntil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	estimateItems := make([]entity.EstimateItem, 0, len(items))
	for i, it := range items {
		estimateItems = append(estimateItems, entity.EstimateItem{
			ID:          uuid.New().String(),
			EstimateID:  estimate.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			Position:    i + 1,
		})
	}
	if err := uc.estimateRepo.Create(estimate, estimateItems); err != nil {
		return nil, err
	}
	return uc.toResponse(estimate, estimateItems), nil
}

// GetByID obtiene la cotización con sus líneas, verificando tenencia.
func (uc *EstimateUseCase) GetByID(companyID, id string) (*dto.EstimateResponse, error) {
	estimate, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.estimateRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(estimate, items), nil
}

// List lista cotizaciones de la empresa; status vacío = todos.
func (uc *EstimateUseCase) List(companyID, status string, page dto.PageRequest) ([]dto.EstimateResponse, error) {
	page.DefaultPage()
	estimates, err := uc.estimateRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstimateResponse, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, *uc.toResponse(e, nil))
	}
	return out, nil
}

// ListByContact lista las cotizaciones de un contacto (portal del cliente).
func (uc *EstimateUseCase) ListByContact(contactID string, page dto.PageRequest) ([]dto.EstimateResponse, error) {
	page.DefaultPage()
	estimates, err := uc.estimateRepo.ListByContact(contactID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstimateResponse, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, *uc.toResponse(e, nil))
	}
	return out, nil
}

// Send envía la cotización por correo al contacto con el PDF adjunto y la
// marca como enviada. Solo aplica a borradores.
func (uc *EstimateUseCase) Send(ctx context.Context, companyID, id string) (*dto.EstimateResponse, error) {
	estimate, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if estimate.Status != entity.EstimateStatusBorrador {
		return nil, domain.ErrConflict
	}
	contact, err := uc.contactRepo.GetByID(estimate.ContactID)
	if err != nil || contact == nil {
		return nil, domain.ErrNotFound
	}
	if contact.Email == "" {
		return nil, fmt.Errorf("%w: el contacto no tiene email", domain.ErrInvalidInput)
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.estimateRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.pdfGen.GenerateEstimatePDF(ctx, company, contact, estimate, items)
	if err != nil {
		return nil, fmt.Errorf("cotización: generar PDF: %w", err)
	}
	subject := fmt.Sprintf("Cotización %s de %s", estimate.Number, company.Name)
	body := fmt.Sprintf(
		"<p>Hola %s,</p><p>Adjuntamos la cotización <b>%s</b> por un total de <b>$%s</b>.</p><p>%s</p>",
		contact.Name, estimate.Number, estimate.GrandTotal.StringFixed(2), company.Name,
	)
	err = uc.emailSender.Send(ctx, contact.Email, subject, body, ports.EmailAttachment{
		FileName:    estimate.Number + ".pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("cotización: enviar correo: %w", err)
	}
	now := time.Now()
	estimate.Status = entity.EstimateStatusEnviada
	estimate.SentAt = &now
	estimate.UpdatedAt = now
	if err := uc.estimateRepo.Update(estimate); err != nil {
		return nil, err
	}
	return uc.toResponse(estimate, items), nil
}

// Decide registra la decisión del cliente sobre una cotización enviada.
// Solo se aceptan aprobada y rechazada; cualquier otro valor es una
// transición inválida. Una cotización vencida ya no se puede aprobar ni
// rechazar. Al aprobar se crea la factura borrador en la misma transacción.
func (uc *EstimateUseCase) Decide(ctx context.Context, companyID, id string, in dto.DecideEstimateRequest) (*dto.EstimateResponse, error) {
	if in.Decision != entity.EstimateStatusAprobada && in.Decision != entity.EstimateStatusRechazada {
		return nil, fmt.Errorf("%w: decisión %q", domain.ErrInvalidTransition, in.Decision)
	}
	var (
		decided *entity.Estimate
		expired *entity.Estimate
		items   []entity.EstimateItem
	)
	err := uc.txRunner.RunBilling(ctx, func(estimateRepo repository.EstimateRepository, invoiceRepo repository.InvoiceRepository) error {
		estimate, err := estimateRepo.GetByID(id)
		if err != nil {
			return err
		}
		if estimate == nil {
			return domain.ErrNotFound
		}
		if estimate.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if estimate.Status != entity.EstimateStatusEnviada {
			return domain.ErrConflict
		}
		now := time.Now()
		if estimate.IsExpired(now) {
			expired = estimate
			return domain.ErrConflict
		}
		items, err = estimateRepo.GetItems(id)
		if err != nil {
			return err
		}
		estimate.Status = in.Decision
		estimate.DecidedAt = &now
		estimate.UpdatedAt = now
		if err := estimateRepo.Update(estimate); err != nil {
			return err
		}
		if in.Decision == entity.EstimateStatusAprobada {
			if err := uc.createInvoiceFromEstimate(ctx, invoiceRepo, estimate, items, now); err != nil {
				return fmt.Errorf("cotización aprobada: crear factura: %w", err)
			}
		}
		decided = estimate
		return nil
	})
	if err != nil {
		// La marca de vencida va fuera de la transacción: el rollback del
		// Decide fallido no debe perderla.
		if expired != nil {
			expired.Status = entity.EstimateStatusVencida
			expired.UpdatedAt = time.Now()
			_ = uc.estimateRepo.Update(expired)
		}
		return nil, err
	}
	return uc.toResponse(decided, items), nil
}

// createInvoiceFromEstimate copia cabecera y líneas de la cotización aprobada
// a una factura borrador con vencimiento a 30 días.
func (uc *EstimateUseCase) createInvoiceFromEstimate(ctx context.Context, invoiceRepo repository.InvoiceRepository, estimate *entity.Estimate, items []entity.EstimateItem, now time.Time) error {
	seq, err := invoiceRepo.NextNumber(ctx, estimate.CompanyID)
	if err != nil {
		return err
	}
	due := now.AddDate(0, 0, invoiceDueDays)
	invoice := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  estimate.CompanyID,
		ContactID:  estimate.ContactID,
		JobID:      estimate.JobID,
		EstimateID: &estimate.ID,
		Number:     fmt.Sprintf("FAC-%06d", seq),
		Status:     entity.InvoiceStatusBorrador,
		Subtotal:   estimate.Subtotal,
		TaxTotal:   estimate.TaxTotal,
		GrandTotal: estimate.GrandTotal,
		Notes:      estimate.Notes,
		DueDate:    &due,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	invoiceItems := make([]entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		invoiceItems = append(invoiceItems, entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoice.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			Position:    it.Position,
		})
	}
	return invoiceRepo.Create(invoice, invoiceItems)
}

func (uc *EstimateUseCase) getOwned(companyID, id string) (*entity.Estimate, error) {
	estimate, err := uc.estimateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if estimate == nil {
		return nil, domain.ErrNotFound
	}
	if estimate.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return estimate, nil
}

func (uc *EstimateUseCase) toResponse(e *entity.Estimate, items []entity.EstimateItem) *dto.EstimateResponse {
	status := e.Status
	if e.IsExpired(time.Now()) {
		status = entity.EstimateStatusVencida
	}
	resp := &dto.EstimateResponse{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		ContactID:  e.ContactID,
		JobID:      e.JobID,
		Number:     e.Number,
		Status:     status,
		Subtotal:   e.Subtotal,
		TaxTotal:   e.TaxTotal,
		GrandTotal: e.GrandTotal,
		Notes:      e.Notes,
		ValidUntil: e.ValidUntil,
		SentAt:     e.SentAt,
		DecidedAt:  e.DecidedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			Position:    it.Position,
		})
	}
	return resp
}

// builtLine línea ya validada con su subtotal calculado.
type builtLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}

// buildLineItems valida las líneas y calcula subtotal e IVA totales.
// Cantidad debe ser positiva; precio y tarifa no negativos.
func buildLineItems(in []dto.LineItemRequest) ([]builtLine, decimal.Decimal, decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	lines := make([]builtLine, 0, len(in))
	for _, item := range in {
		if item.Description == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsNegative() || item.TaxRate.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		lineSubtotal := item.Quantity.Mul(item.UnitPrice).Round(2)
		lineTax := lineSubtotal.Mul(item.TaxRate).Div(percentDivisor).Round(2)
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(lineTax)
		lines = append(lines, builtLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Subtotal:    lineSubtotal,
		})
	}
	return lines, subtotal, taxTotal, nil
}
