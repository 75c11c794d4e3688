package billing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory
// ──────────────────────────────────────────────────────────────────────────────

type fakeEstimateRepo struct {
	estimates map[string]*entity.Estimate
	items     map[string][]entity.EstimateItem
	seq       int64
}

func newFakeEstimateRepo() *fakeEstimateRepo {
	return &fakeEstimateRepo{
		estimates: make(map[string]*entity.Estimate),
		items:     make(map[string][]entity.EstimateItem),
	}
}

func (r *fakeEstimateRepo) Create(e *entity.Estimate, items []entity.EstimateItem) error {
	cp := *e
	r.estimates[e.ID] = &cp
	r.items[e.ID] = append([]entity.EstimateItem(nil), items...)
	return nil
}

func (r *fakeEstimateRepo) GetByID(id string) (*entity.Estimate, error) {
	e, ok := r.estimates[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEstimateRepo) GetItems(estimateID string) ([]entity.EstimateItem, error) {
	return append([]entity.EstimateItem(nil), r.items[estimateID]...), nil
}

func (r *fakeEstimateRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Estimate, error) {
	var out []*entity.Estimate
	for _, e := range r.estimates {
		if e.CompanyID == companyID && (status == "" || e.Status == status) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) ListByContact(contactID string, limit, offset int) ([]*entity.Estimate, error) {
	var out []*entity.Estimate
	for _, e := range r.estimates {
		if e.ContactID == contactID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) Update(e *entity.Estimate) error {
	cp := *e
	r.estimates[e.ID] = &cp
	return nil
}

func (r *fakeEstimateRepo) NextNumber(_ context.Context, companyID string) (int64, error) {
	r.seq++
	return r.seq, nil
}

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]entity.InvoiceItem
	seq      int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]entity.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice, items []entity.InvoiceItem) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	r.items[inv.ID] = append([]entity.InvoiceItem(nil), items...)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetItems(invoiceID string) ([]entity.InvoiceItem, error) {
	return append([]entity.InvoiceItem(nil), r.items[invoiceID]...), nil
}

func (r *fakeInvoiceRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.CompanyID == companyID && (status == "" || inv.Status == status) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByContact(contactID string, limit, offset int) ([]*entity.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByStripeSession(sessionID string) (*entity.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.StripeSessionID == sessionID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) NextNumber(_ context.Context, companyID string) (int64, error) {
	r.seq++
	return r.seq, nil
}

// stubContactRepo solo implementa GetByID; el resto no se usa en estos tests.
type stubContactRepo struct {
	repository.ContactRepository
	contacts map[string]*entity.Contact
}

func (r *stubContactRepo) GetByID(id string) (*entity.Contact, error) {
	return r.contacts[id], nil
}

type stubCompanyRepo struct {
	repository.CompanyRepository
	companies map[string]*entity.Company
}

func (r *stubCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return r.companies[id], nil
}

type stubBillingJobRepo struct {
	repository.JobRepository
	jobs map[string]*entity.Job
}

func (r *stubBillingJobRepo) GetByID(id string) (*entity.Job, error) {
	return r.jobs[id], nil
}

// sentEmail correo capturado por el sender fake.
type sentEmail struct {
	To          string
	Subject     string
	Attachments []ports.EmailAttachment
}

type fakeEmailSender struct {
	sent []sentEmail
	fail bool
}

func (s *fakeEmailSender) Send(_ context.Context, to, subject, htmlBody string, attachments ...ports.EmailAttachment) error {
	if s.fail {
		return fmt.Errorf("smtp: conexión rechazada")
	}
	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Attachments: attachments})
	return nil
}

type fakePDFGen struct{}

func (fakePDFGen) GenerateEstimatePDF(_ context.Context, _ *entity.Company, _ *entity.Contact, _ *entity.Estimate, _ []entity.EstimateItem) ([]byte, error) {
	return []byte("%PDF-estimate"), nil
}

func (fakePDFGen) GenerateInvoicePDF(_ context.Context, _ *entity.Company, _ *entity.Contact, _ *entity.Invoice, _ []entity.InvoiceItem) ([]byte, error) {
	return []byte("%PDF-invoice"), nil
}

// fakeBillingTx ejecuta la función con los fakes y emula el rollback:
// si la función devuelve error, el estado de ambos repos se restaura.
type fakeBillingTx struct {
	estimateRepo *fakeEstimateRepo
	invoiceRepo  *fakeInvoiceRepo
}

func (t *fakeBillingTx) RunBilling(_ context.Context, fn func(repository.EstimateRepository, repository.InvoiceRepository) error) error {
	estSnap, estItemsSnap := snapshotEstimates(t.estimateRepo)
	invSnap, invItemsSnap := snapshotInvoices(t.invoiceRepo)
	if err := fn(t.estimateRepo, t.invoiceRepo); err != nil {
		t.estimateRepo.estimates, t.estimateRepo.items = estSnap, estItemsSnap
		t.invoiceRepo.invoices, t.invoiceRepo.items = invSnap, invItemsSnap
		return err
	}
	return nil
}

func snapshotEstimates(r *fakeEstimateRepo) (map[string]*entity.Estimate, map[string][]entity.EstimateItem) {
	estimates := make(map[string]*entity.Estimate, len(r.estimates))
	for id, e := range r.estimates {
		cp := *e
		estimates[id] = &cp
	}
	items := make(map[string][]entity.EstimateItem, len(r.items))
	for id, its := range r.items {
		items[id] = append([]entity.EstimateItem(nil), its...)
	}
	return estimates, items
}

func snapshotInvoices(r *fakeInvoiceRepo) (map[string]*entity.Invoice, map[string][]entity.InvoiceItem) {
	invoices := make(map[string]*entity.Invoice, len(r.invoices))
	for id, inv := range r.invoices {
		cp := *inv
		invoices[id] = &cp
	}
	items := make(map[string][]entity.InvoiceItem, len(r.items))
	for id, its := range r.items {
		items[id] = append([]entity.InvoiceItem(nil), its...)
	}
	return invoices, items
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	billCompanyID  = "00000000-0000-0000-0000-0000000000c1"
	billOtherComp  = "00000000-0000-0000-0000-0000000000c2"
	billContactID  = "00000000-0000-0000-0000-0000000000f1"
	billContact2ID = "00000000-0000-0000-0000-0000000000f2"
)

type billingFixture struct {
	uc           *billing.EstimateUseCase
	estimateRepo *fakeEstimateRepo
	invoiceRepo  *fakeInvoiceRepo
	emailSender  *fakeEmailSender
}

func buildBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	estimateRepo := newFakeEstimateRepo()
	invoiceRepo := newFakeInvoiceRepo()
	contactRepo := &stubContactRepo{contacts: map[string]*entity.Contact{
		billContactID: {
			ID: billContactID, CompanyID: billCompanyID,
			Name: "Ana Quintero", Email: "ana.quintero@example.com",
		},
		billContact2ID: {
			ID: billContact2ID, CompanyID: billCompanyID,
			Name: "Agropecuaria San Jorge", // sin email
		},
	}}
	companyRepo := &stubCompanyRepo{companies: map[string]*entity.Company{
		billCompanyID: {ID: billCompanyID, Name: "Riegos del Valle SAS"},
	}}
	jobRepo := &stubBillingJobRepo{jobs: map[string]*entity.Job{}}
	emailSender := &fakeEmailSender{}
	tx := &fakeBillingTx{estimateRepo: estimateRepo, invoiceRepo: invoiceRepo}
	uc := billing.NewEstimateUseCase(tx, estimateRepo, contactRepo, companyRepo, jobRepo, emailSender, fakePDFGen{})
	return &billingFixture{uc: uc, estimateRepo: estimateRepo, invoiceRepo: invoiceRepo, emailSender: emailSender}
}

// twoLineItems: 2 x 150.000 al 19% + 1.5 x 80.000 exento.
// Subtotal 420.000,00 / IVA 57.000,00 / Total 477.000,00
func twoLineItems() []dto.LineItemRequest {
	return []dto.LineItemRequest{
		{
			Description: "Instalación línea de goteo",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(150000),
			TaxRate:     decimal.NewFromInt(19),
		},
		{
			Description: "Manguera 16mm (rollo)",
			Quantity:    decimal.RequireFromString("1.5"),
			UnitPrice:   decimal.NewFromInt(80000),
			TaxRate:     decimal.Zero,
		},
	}
}

func (f *billingFixture) createEstimate(t *testing.T, validUntil *time.Time) *dto.EstimateResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), billCompanyID, dto.CreateEstimateRequest{
		ContactID:  billContactID,
		Items:      twoLineItems(),
		Notes:      "Incluye mano de obra",
		ValidUntil: validUntil,
	})
	require.NoError(t, err)
	return out
}

// sendEstimate lleva la cotización a estado enviada.
func (f *billingFixture) sendEstimate(t *testing.T, id string) {
	t.Helper()
	_, err := f.uc.Send(context.Background(), billCompanyID, id)
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create — totales y consecutivo
// ──────────────────────────────────────────────────────────────────────────────

func TestEstimateCreate_CalculaTotalesEnServidor(t *testing.T) {
	f := buildBillingFixture(t)
	out := f.createEstimate(t, nil)

	assert.Equal(t, entity.EstimateStatusBorrador, out.Status)
	assert.Equal(t, "COT-000001", out.Number, "el consecutivo arranca en 1 con padding a 6 dígitos")
	assert.Equal(t, "420000.00", out.Subtotal.StringFixed(2))
	assert.Equal(t, "57000.00", out.TaxTotal.StringFixed(2))
	assert.Equal(t, "477000.00", out.GrandTotal.StringFixed(2))

	require.Len(t, out.Items, 2)
	assert.Equal(t, "300000.00", out.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "120000.00", out.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, 1, out.Items[0].Position)
	assert.Equal(t, 2, out.Items[1].Position)

	// El segundo documento incrementa el consecutivo.
	out2 := f.createEstimate(t, nil)
	assert.Equal(t, "COT-000002", out2.Number)
}

func TestEstimateCreate_LineasInvalidas(t *testing.T) {
	f := buildBillingFixture(t)

	casos := []struct {
		nombre string
		items  []dto.LineItemRequest
	}{
		{"sin líneas", nil},
		{"cantidad cero", []dto.LineItemRequest{{
			Description: "Filtro", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(1000),
		}}},
		{"precio negativo", []dto.LineItemRequest{{
			Description: "Filtro", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-5),
		}}},
		{"descripción vacía", []dto.LineItemRequest{{
			Description: "", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000),
		}}},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), billCompanyID, dto.CreateEstimateRequest{
				ContactID: billContactID,
				Items:     tc.items,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestEstimateCreate_ContactoDeOtraEmpresa(t *testing.T) {
	f := buildBillingFixture(t)
	_, err := f.uc.Create(context.Background(), billOtherComp, dto.CreateEstimateRequest{
		ContactID: billContactID,
		Items:     twoLineItems(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Send
// ──────────────────────────────────────────────────────────────────────────────

func TestEstimateSend_AdjuntaPDFYMarcaEnviada(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)

	out, err := f.uc.Send(context.Background(), billCompanyID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.EstimateStatusEnviada, out.Status)
	require.NotNil(t, out.SentAt)

	require.Len(t, f.emailSender.sent, 1)
	mail := f.emailSender.sent[0]
	assert.Equal(t, "ana.quintero@example.com", mail.To)
	assert.Contains(t, mail.Subject, "COT-000001")
	require.Len(t, mail.Attachments, 1)
	assert.Equal(t, "COT-000001.pdf", mail.Attachments[0].FileName)
	assert.Equal(t, "application/pdf", mail.Attachments[0].ContentType)
}

func TestEstimateSend_ContactoSinEmail(t *testing.T) {
	f := buildBillingFixture(t)
	out, err := f.uc.Create(context.Background(), billCompanyID, dto.CreateEstimateRequest{
		ContactID: billContact2ID,
		Items:     twoLineItems(),
	})
	require.NoError(t, err)

	_, err = f.uc.Send(context.Background(), billCompanyID, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.emailSender.sent)
}

func TestEstimateSend_SoloBorradores(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)
	f.sendEstimate(t, created.ID)

	_, err := f.uc.Send(context.Background(), billCompanyID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "reenviar una cotización ya enviada debe fallar")
}

func TestEstimateSend_FalloSMTPNoCambiaEstado(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)
	f.emailSender.fail = true

	_, err := f.uc.Send(context.Background(), billCompanyID, created.ID)
	require.Error(t, err)

	stored, err := f.estimateRepo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstimateStatusBorrador, stored.Status,
		"si el correo falla la cotización sigue en borrador")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Decide — máquina de estados y factura automática
// ──────────────────────────────────────────────────────────────────────────────

func TestEstimateDecide_AprobadaCreaFacturaBorrador(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)
	f.sendEstimate(t, created.ID)

	out, err := f.uc.Decide(context.Background(), billCompanyID, created.ID, dto.DecideEstimateRequest{
		Decision: entity.EstimateStatusAprobada,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EstimateStatusAprobada, out.Status)
	require.NotNil(t, out.DecidedAt)

	// La factura borrador nace de la cotización con los mismos totales y líneas.
	require.Len(t, f.invoiceRepo.invoices, 1)
	var invoice *entity.Invoice
	for _, inv := range f.invoiceRepo.invoices {
		invoice = inv
	}
	assert.Equal(t, "FAC-000001", invoice.Number)
	assert.Equal(t, entity.InvoiceStatusBorrador, invoice.Status)
	require.NotNil(t, invoice.EstimateID)
	assert.Equal(t, created.ID, *invoice.EstimateID)
	assert.Equal(t, billContactID, invoice.ContactID)
	assert.Equal(t, "477000.00", invoice.GrandTotal.StringFixed(2))
	require.NotNil(t, invoice.DueDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *invoice.DueDate, 2*time.Second,
		"la factura vence a 30 días")

	items, err := f.invoiceRepo.GetItems(invoice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Instalación línea de goteo", items[0].Description)
	assert.Equal(t, "300000.00", items[0].Subtotal.StringFixed(2))
}

func TestEstimateDecide_RechazadaNoCreaFactura(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)
	f.sendEstimate(t, created.ID)

	out, err := f.uc.Decide(context.Background(), billCompanyID, created.ID, dto.DecideEstimateRequest{
		Decision: entity.EstimateStatusRechazada,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EstimateStatusRechazada, out.Status)
	assert.Empty(t, f.invoiceRepo.invoices, "rechazar no debe generar factura")
}

func TestEstimateDecide_SoloAprobadaORechazada(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)
	f.sendEstimate(t, created.ID)

	// Cualquier valor fuera de aprobada/rechazada se rechaza, incluidos
	// estados reales del ciclo de vida como borrador o vencida.
	for _, decision := range []string{"borrador", "enviada", "vencida", "pagada", "x", ""} {
		_, err := f.uc.Decide(context.Background(), billCompanyID, created.ID, dto.DecideEstimateRequest{
			Decision: decision,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "decision=%q", decision)
	}

	// La cotización no se tocó: sigue enviada, sin fecha de decisión y sin factura.
	stored, err := f.estimateRepo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstimateStatusEnviada, stored.Status)
	assert.Nil(t, stored.DecidedAt)
	assert.Empty(t, f.invoiceRepo.invoices)
}

func TestEstimateDecide_SoloEnviadas(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil) // sigue en borrador

	_, err := f.uc.Decide(context.Background(), billCompanyID, created.ID, dto.DecideEstimateRequest{
		Decision: entity.EstimateStatusAprobada,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEstimateDecide_VencidaNoSePuedeAprobar(t *testing.T) {
	f := buildBillingFixture(t)
	ayer := time.Now().AddDate(0, 0, -1)
	created := f.createEstimate(t, &ayer)

	// Forzamos el estado enviada sin pasar por Send (ya venció).
	stored, err := f.estimateRepo.GetByID(created.ID)
	require.NoError(t, err)
	stored.Status = entity.EstimateStatusEnviada
	require.NoError(t, f.estimateRepo.Update(stored))

	_, err = f.uc.Decide(context.Background(), billCompanyID, created.ID, dto.DecideEstimateRequest{
		Decision: entity.EstimateStatusAprobada,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// La marca de vencida sobrevive al rollback de la transacción fallida,
	// y no hay factura.
	stored, err = f.estimateRepo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstimateStatusVencida, stored.Status)
	assert.Nil(t, stored.DecidedAt)
	assert.Empty(t, f.invoiceRepo.invoices)
}

func TestEstimateDecide_OtraEmpresaProhibido(t *testing.T) {
	f := buildBillingFixture(t)
	created := f.createEstimate(t, nil)
	f.sendEstimate(t, created.ID)

	_, err := f.uc.Decide(context.Background(), billOtherComp, created.ID, dto.DecideEstimateRequest{
		Decision: entity.EstimateStatusAprobada,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
