package billing_test

import (
	"context"
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
// Fakes adicionales para facturas
// ──────────────────────────────────────────────────────────────────────────────

// countingInvoiceRepo envuelve el fake para contar escrituras.
type countingInvoiceRepo struct {
	*fakeInvoiceRepo
	updates int
}

func (r *countingInvoiceRepo) Update(inv *entity.Invoice) error {
	r.updates++
	return r.fakeInvoiceRepo.Update(inv)
}

// stubUserRepo solo responde ListByCompany (admins a notificar).
type stubUserRepo struct {
	repository.UserRepository
	admins []*entity.User
}

func (r *stubUserRepo) ListByCompany(companyID, role, status string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.admins {
		if u.CompanyID == companyID && (role == "" || u.Role == role) && (status == "" || u.Status == status) {
			out = append(out, u)
		}
	}
	return out, nil
}

// recordNotifRepo captura las notificaciones creadas.
type recordNotifRepo struct {
	repository.NotificationRepository
	created []*entity.Notification
}

func (r *recordNotifRepo) Create(n *entity.Notification) error {
	r.created = append(r.created, n)
	return nil
}

// recordPublisher captura los eventos publicados a la empresa.
type recordPublisher struct {
	companyEvents []dto.RealtimeEvent
}

func (p *recordPublisher) PublishToUser(string, dto.RealtimeEvent) {}

func (p *recordPublisher) PublishToCompany(_ string, e dto.RealtimeEvent) {
	p.companyEvents = append(p.companyEvents, e)
}

type stubPayments struct{}

func (stubPayments) CreatePaymentLink(context.Context, ports.PaymentLinkInput) (*ports.PaymentLink, error) {
	return &ports.PaymentLink{URL: "https://pay.example.com/x", SessionID: "cs_test_nuevo"}, nil
}

func (stubPayments) ParseWebhookEvent([]byte, string) (*ports.PaymentEvent, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const billSessionID = "cs_test_abc123"

type invoiceFixture struct {
	uc          *billing.InvoiceUseCase
	invoiceRepo *countingInvoiceRepo
	notifRepo   *recordNotifRepo
	publisher   *recordPublisher
	invoiceID   string
}

func buildInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	invoiceRepo := &countingInvoiceRepo{fakeInvoiceRepo: newFakeInvoiceRepo()}
	contactRepo := &stubContactRepo{contacts: map[string]*entity.Contact{
		billContactID: {ID: billContactID, CompanyID: billCompanyID, Name: "Ana Quintero", Email: "ana.quintero@example.com"},
	}}
	companyRepo := &stubCompanyRepo{companies: map[string]*entity.Company{
		billCompanyID: {ID: billCompanyID, Name: "Riegos del Valle SAS"},
	}}
	userRepo := &stubUserRepo{admins: []*entity.User{
		{ID: "adm-1", CompanyID: billCompanyID, Role: entity.RoleAdmin, Status: "active", Name: "Gloria"},
		{ID: "adm-2", CompanyID: billCompanyID, Role: entity.RoleAdmin, Status: "active", Name: "Héctor"},
		{ID: "adm-3", CompanyID: billCompanyID, Role: entity.RoleAdmin, Status: "inactive", Name: "Iván"},
		{ID: "tec-1", CompanyID: billCompanyID, Role: entity.RoleTecnico, Status: "active", Name: "Julio"},
	}}
	notifRepo := &recordNotifRepo{}
	publisher := &recordPublisher{}

	// Factura enviada con link de pago, esperando el webhook.
	sent := time.Now().Add(-24 * time.Hour)
	invoice := &entity.Invoice{
		ID:              "00000000-0000-0000-0000-0000000000a1",
		CompanyID:       billCompanyID,
		ContactID:       billContactID,
		Number:          "FAC-000001",
		Status:          entity.InvoiceStatusEnviada,
		Subtotal:        decimal.NewFromInt(420000),
		TaxTotal:        decimal.NewFromInt(57000),
		GrandTotal:      decimal.NewFromInt(477000),
		StripeSessionID: billSessionID,
		SentAt:          &sent,
		CreatedAt:       sent,
		UpdatedAt:       sent,
	}
	require.NoError(t, invoiceRepo.Create(invoice, nil))
	invoiceRepo.updates = 0

	uc := billing.NewInvoiceUseCase(
		invoiceRepo, contactRepo, companyRepo, userRepo, notifRepo,
		&fakeEmailSender{}, stubPayments{}, fakePDFGen{}, publisher,
	)
	return &invoiceFixture{
		uc:          uc,
		invoiceRepo: invoiceRepo,
		notifRepo:   notifRepo,
		publisher:   publisher,
		invoiceID:   invoice.ID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MarkPaid — idempotencia del webhook
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceMarkPaid_PorSesionNotificaAdmins(t *testing.T) {
	f := buildInvoiceFixture(t)

	err := f.uc.MarkPaidBySession(context.Background(), billSessionID, "pi_123")
	require.NoError(t, err)

	stored, err := f.invoiceRepo.GetByID(f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPagada, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.Equal(t, "pi_123", stored.PaymentRef)

	// Una notificación por cada admin activo; ni el inactivo ni el técnico.
	require.Len(t, f.notifRepo.created, 2)
	notified := map[string]bool{}
	for _, n := range f.notifRepo.created {
		assert.Equal(t, entity.NotifInvoicePaid, n.Type)
		assert.Contains(t, n.Body, "FAC-000001")
		notified[n.UserID] = true
	}
	assert.True(t, notified["adm-1"])
	assert.True(t, notified["adm-2"])

	require.Len(t, f.publisher.companyEvents, 1)
	assert.Equal(t, entity.NotifInvoicePaid, f.publisher.companyEvents[0].Type)
}

func TestInvoiceMarkPaid_EventoDuplicadoNoHaceNada(t *testing.T) {
	f := buildInvoiceFixture(t)

	require.NoError(t, f.uc.MarkPaidBySession(context.Background(), billSessionID, "pi_123"))
	stored, err := f.invoiceRepo.GetByID(f.invoiceID)
	require.NoError(t, err)
	firstPaidAt := *stored.PaidAt

	// Stripe reintenta: la misma sesión llega otra vez, y además el
	// payment_intent.succeeded de la misma compra llega por ID.
	require.NoError(t, f.uc.MarkPaidBySession(context.Background(), billSessionID, "pi_123"))
	require.NoError(t, f.uc.MarkPaidByID(context.Background(), f.invoiceID, "pi_123"))

	stored, err = f.invoiceRepo.GetByID(f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPagada, stored.Status)
	assert.Equal(t, firstPaidAt, *stored.PaidAt, "la fecha de pago no se reescribe")
	assert.Equal(t, 1, f.invoiceRepo.updates, "una sola escritura de estado")
	assert.Len(t, f.notifRepo.created, 2, "los admins se notifican una sola vez")
	assert.Len(t, f.publisher.companyEvents, 1)
}

func TestInvoiceMarkPaid_PorPaymentIntent(t *testing.T) {
	f := buildInvoiceFixture(t)

	err := f.uc.MarkPaidByID(context.Background(), f.invoiceID, "pi_456")
	require.NoError(t, err)

	stored, err := f.invoiceRepo.GetByID(f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPagada, stored.Status)
	assert.Equal(t, "pi_456", stored.PaymentRef)
}

func TestInvoiceMarkPaid_SesionDesconocida(t *testing.T) {
	f := buildInvoiceFixture(t)

	err := f.uc.MarkPaidBySession(context.Background(), "cs_test_otra", "pi_999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.invoiceRepo.GetByID(f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusEnviada, stored.Status)
	assert.Empty(t, f.notifRepo.created)
}
