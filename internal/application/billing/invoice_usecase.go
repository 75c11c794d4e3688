package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// InvoiceUseCase casos de uso de facturas: crear, enviar con link de pago
// y registrar el pago que llega por webhook.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	contactRepo repository.ContactRepository
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	emailSender ports.EmailSender
	payments    ports.PaymentService
	pdfGen      DocumentPDFGenerator
	publisher   ports.EventPublisher
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	contactRepo repository.ContactRepository,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	emailSender ports.EmailSender,
	payments ports.PaymentService,
	pdfGen DocumentPDFGenerator,
	publisher ports.EventPublisher,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		contactRepo: contactRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		emailSender: emailSender,
		payments:    payments,
		pdfGen:      pdfGen,
		publisher:   publisher,
	}
}

// Create crea una factura borrador manual (sin cotización previa) con su
// consecutivo FAC-NNNNNN. Totales calculados en el servidor.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	contact, err := uc.contactRepo.GetByID(in.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	items, subtotal, taxTotal, err := buildLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	seq, err := uc.invoiceRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	invoice := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ContactID:  in.ContactID,
		JobID:      in.JobID,
		Number:     fmt.Sprintf("FAC-%06d", seq),
		Status:     entity.InvoiceStatusBorrador,
		Subtotal:   subtotal,
		TaxTotal:   taxTotal,
		GrandTotal: subtotal.Add(taxTotal),
		Notes:      in.Notes,
		DueDate:    in.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	invoiceItems := make([]entity.InvoiceItem, 0, len(items))
	for i, it := range items {
		invoiceItems = append(invoiceItems, entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoice.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			Position:    i + 1,
		})
	}
	if err := uc.invoiceRepo.Create(invoice, invoiceItems); err != nil {
		return nil, err
	}
	return uc.toResponse(invoice, invoiceItems), nil
}

// GetByID obtiene la factura con sus líneas, verificando tenencia.
func (uc *InvoiceUseCase) GetByID(companyID, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(invoice, items), nil
}

// List lista facturas de la empresa; status vacío = todos.
func (uc *InvoiceUseCase) List(companyID, status string, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, *uc.toResponse(i, nil))
	}
	return out, nil
}

// ListByContact lista las facturas de un contacto (portal del cliente).
func (uc *InvoiceUseCase) ListByContact(contactID string, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByContact(contactID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, *uc.toResponse(i, nil))
	}
	return out, nil
}

// Send crea el link de pago, envía la factura por correo (PDF adjunto +
// link) y la marca como enviada. Solo aplica a borradores.
func (uc *InvoiceUseCase) Send(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != entity.InvoiceStatusBorrador {
		return nil, domain.ErrConflict
	}
	contact, err := uc.contactRepo.GetByID(invoice.ContactID)
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
	link, err := uc.payments.CreatePaymentLink(ctx, ports.PaymentLinkInput{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.Number,
		CompanyName:   company.Name,
		CustomerEmail: contact.Email,
		Amount:        invoice.GrandTotal,
		Currency:      "cop",
	})
	if err != nil {
		return nil, fmt.Errorf("factura: crear link de pago: %w", err)
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.pdfGen.GenerateInvoicePDF(ctx, company, contact, invoice, items)
	if err != nil {
		return nil, fmt.Errorf("factura: generar PDF: %w", err)
	}
	subject := fmt.Sprintf("Factura %s de %s", invoice.Number, company.Name)
	body := fmt.Sprintf(
		"<p>Hola %s,</p><p>Adjuntamos la factura <b>%s</b> por un total de <b>$%s</b>.</p><p><a href=%q>Pagar en línea</a></p><p>%s</p>",
		contact.Name, invoice.Number, invoice.GrandTotal.StringFixed(2), link.URL, company.Name,
	)
	err = uc.emailSender.Send(ctx, contact.Email, subject, body, ports.EmailAttachment{
		FileName:    invoice.Number + ".pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("factura: enviar correo: %w", err)
	}
	now := time.Now()
	invoice.Status = entity.InvoiceStatusEnviada
	invoice.PaymentLinkURL = link.URL
	invoice.StripeSessionID = link.SessionID
	invoice.SentAt = &now
	invoice.UpdatedAt = now
	if err := uc.invoiceRepo.Update(invoice); err != nil {
		return nil, err
	}
	return uc.toResponse(invoice, items), nil
}

// Cancel anula una factura no pagada.
func (uc *InvoiceUseCase) Cancel(companyID, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == entity.InvoiceStatusPagada || invoice.Status == entity.InvoiceStatusAnulada {
		return nil, domain.ErrConflict
	}
	invoice.Status = entity.InvoiceStatusAnulada
	invoice.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(invoice); err != nil {
		return nil, err
	}
	return uc.toResponse(invoice, nil), nil
}

// MarkPaidBySession marca la factura como pagada a partir del evento
// checkout.session.completed del webhook.
func (uc *InvoiceUseCase) MarkPaidBySession(ctx context.Context, sessionID, paymentRef string) error {
	invoice, err := uc.invoiceRepo.GetByStripeSession(sessionID)
	if err != nil {
		return err
	}
	return uc.markPaid(invoice, paymentRef)
}

// MarkPaidByID marca la factura como pagada a partir del invoice_id que
// viaja en la metadata del payment intent.
func (uc *InvoiceUseCase) MarkPaidByID(ctx context.Context, invoiceID, paymentRef string) error {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	return uc.markPaid(invoice, paymentRef)
}

// markPaid registra el pago. Idempotente: un evento repetido sobre una
// factura ya pagada no hace nada. Notifica a los administradores de la empresa.
func (uc *InvoiceUseCase) markPaid(invoice *entity.Invoice, paymentRef string) error {
	if invoice == nil {
		return domain.ErrNotFound
	}
	if invoice.IsPaid() {
		return nil // evento duplicado
	}
	now := time.Now()
	invoice.Status = entity.InvoiceStatusPagada
	invoice.PaidAt = &now
	invoice.PaymentRef = paymentRef
	invoice.UpdatedAt = now
	if err := uc.invoiceRepo.Update(invoice); err != nil {
		return err
	}
	uc.notifyPaid(invoice, now)
	return nil
}

// notifyPaid deja notificación in-app a los admins y publica el evento.
// Fallos aquí no revierten el pago registrado.
func (uc *InvoiceUseCase) notifyPaid(invoice *entity.Invoice, now time.Time) {
	admins, err := uc.userRepo.ListByCompany(invoice.CompanyID, entity.RoleAdmin, "active", 50, 0)
	if err == nil {
		for _, admin := range admins {
			_ = uc.notifRepo.Create(&entity.Notification{
				ID:        uuid.New().String(),
				CompanyID: invoice.CompanyID,
				UserID:    admin.ID,
				Type:      entity.NotifInvoicePaid,
				Title:     "Factura pagada",
				Body:      fmt.Sprintf("%s por $%s", invoice.Number, invoice.GrandTotal.StringFixed(2)),
				EntityID:  invoice.ID,
				CreatedAt: now,
			})
		}
	}
	uc.publisher.PublishToCompany(invoice.CompanyID, dto.RealtimeEvent{
		Type:    entity.NotifInvoicePaid,
		Payload: uc.toResponse(invoice, nil),
	})
}

func (uc *InvoiceUseCase) getOwned(companyID, id string) (*entity.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return invoice, nil
}

func (uc *InvoiceUseCase) toResponse(i *entity.Invoice, items []entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             i.ID,
		CompanyID:      i.CompanyID,
		ContactID:      i.ContactID,
		JobID:          i.JobID,
		EstimateID:     i.EstimateID,
		Number:         i.Number,
		Status:         i.EffectiveStatus(time.Now()),
		Subtotal:       i.Subtotal,
		TaxTotal:       i.TaxTotal,
		GrandTotal:     i.GrandTotal,
		Notes:          i.Notes,
		DueDate:        i.DueDate,
		PaymentLinkURL: i.PaymentLinkURL,
		PaidAt:         i.PaidAt,
		PaymentRef:     i.PaymentRef,
		SentAt:         i.SentAt,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
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
