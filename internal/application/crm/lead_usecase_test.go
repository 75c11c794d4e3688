package crm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/crm"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory
// ──────────────────────────────────────────────────────────────────────────────

type fakeLeadRepo struct {
	leads   map[string]*entity.Lead
	summary []repository.PipelineStageResult
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[string]*entity.Lead)}
}

func (r *fakeLeadRepo) Create(lead *entity.Lead) error {
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) GetByID(id string) (*entity.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLeadRepo) ListByCompany(companyID, stage string, limit, offset int) ([]*entity.Lead, error) {
	var out []*entity.Lead
	for _, l := range r.leads {
		if l.CompanyID == companyID && (stage == "" || l.Stage == stage) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLeadRepo) Update(lead *entity.Lead) error {
	if _, ok := r.leads[lead.ID]; !ok {
		return errors.New("lead no existe")
	}
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) Delete(id string) error {
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) PipelineSummary(_ context.Context, _ string) ([]repository.PipelineStageResult, error) {
	return r.summary, nil
}

type fakeContactRepo struct {
	contacts map[string]*entity.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[string]*entity.Contact)}
}

func (r *fakeContactRepo) Create(c *entity.Contact) error {
	r.contacts[c.ID] = c
	return nil
}

func (r *fakeContactRepo) GetByID(id string) (*entity.Contact, error) {
	return r.contacts[id], nil
}

func (r *fakeContactRepo) GetByCompanyAndEmail(companyID, email string) (*entity.Contact, error) {
	for _, c := range r.contacts {
		if c.CompanyID == companyID && c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) GetByCompanyAndPhone(companyID, phone string) (*entity.Contact, error) {
	for _, c := range r.contacts {
		if c.CompanyID == companyID && c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for _, c := range r.contacts {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) Search(companyID, pattern string, limit, offset int) ([]*entity.Contact, error) {
	return r.ListByCompany(companyID, limit, offset)
}

func (r *fakeContactRepo) Update(c *entity.Contact) error { r.contacts[c.ID] = c; return nil }
func (r *fakeContactRepo) Delete(id string) error         { delete(r.contacts, id); return nil }

type fakeJobRepo struct {
	jobs map[string]*entity.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.Job)}
}

func (r *fakeJobRepo) Create(j *entity.Job) error {
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) GetByID(id string) (*entity.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range r.jobs {
		if j.CompanyID == companyID && (status == "" || j.Status == status) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListAgenda(_ context.Context, companyID string, from, to time.Time, technicianID string) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range r.jobs {
		if j.CompanyID != companyID || j.ScheduledStart == nil {
			continue
		}
		if j.ScheduledStart.Before(from) || !j.ScheduledStart.Before(to) {
			continue
		}
		if technicianID != "" && (j.TechnicianID == nil || *j.TechnicianID != technicianID) {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeJobRepo) ListByTechnician(technicianID, status string, limit, offset int) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range r.jobs {
		if j.TechnicianID != nil && *j.TechnicianID == technicianID && (status == "" || j.Status == status) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(j *entity.Job) error {
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) HasOverlap(_ context.Context, technicianID string, start, end time.Time, excludeJobID string) (bool, error) {
	for _, j := range r.jobs {
		if j.ID == excludeJobID || j.TechnicianID == nil || *j.TechnicianID != technicianID {
			continue
		}
		if j.ScheduledStart == nil || j.ScheduledEnd == nil {
			continue
		}
		if start.Before(*j.ScheduledEnd) && j.ScheduledStart.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeJobRepo) ListUpcomingWithoutReminder(_ context.Context, from, to time.Time) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range r.jobs {
		if j.Status != entity.JobStatusProgramado || j.ReminderSent || j.ScheduledStart == nil {
			continue
		}
		if !j.ScheduledStart.Before(from) && j.ScheduledStart.Before(to) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) MarkReminderSent(_ context.Context, jobID string) error {
	if j, ok := r.jobs[jobID]; ok {
		j.ReminderSent = true
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	leadCompanyID  = "00000000-0000-0000-0000-0000000000aa"
	otherCompanyID = "00000000-0000-0000-0000-0000000000bb"
)

func buildLeadUseCase(t *testing.T) (*crm.LeadUseCase, *fakeLeadRepo, *fakeContactRepo, *fakeJobRepo, string) {
	t.Helper()
	leadRepo := newFakeLeadRepo()
	contactRepo := newFakeContactRepo()
	jobRepo := newFakeJobRepo()
	contact := &entity.Contact{
		ID:        "contact-1",
		CompanyID: leadCompanyID,
		Name:      "Ana Quintero",
		Address:   "Finca La Esperanza km 4",
		City:      "Palmira",
	}
	require.NoError(t, contactRepo.Create(contact))
	uc := crm.NewLeadUseCase(leadRepo, contactRepo, jobRepo)
	return uc, leadRepo, contactRepo, jobRepo, contact.ID
}

func createLead(t *testing.T, uc *crm.LeadUseCase, contactID string) *dto.LeadResponse {
	t.Helper()
	lead, err := uc.Create(leadCompanyID, dto.CreateLeadRequest{
		ContactID: contactID,
		Title:     "Instalación riego por goteo",
		Value:     decimal.NewFromInt(8_500_000),
		Source:    "referido",
	})
	require.NoError(t, err)
	return lead
}

// advanceTo lleva el lead etapa por etapa hasta la indicada.
func advanceTo(t *testing.T, uc *crm.LeadUseCase, id string, stages ...string) *dto.LeadResponse {
	t.Helper()
	var out *dto.LeadResponse
	var err error
	for _, stage := range stages {
		out, err = uc.ChangeStage(leadCompanyID, id, dto.ChangeLeadStageRequest{Stage: stage})
		require.NoError(t, err, "transición a %s debe ser válida", stage)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestLeadCreate_ArrancaEnNuevo(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)

	lead := createLead(t, uc, contactID)

	assert.Equal(t, entity.LeadStageNuevo, lead.Stage)
	assert.Equal(t, leadCompanyID, lead.CompanyID)
	assert.True(t, lead.Value.Equal(decimal.NewFromInt(8_500_000)))
}

func TestLeadCreate_ContactoDeOtraEmpresa_NotFound(t *testing.T) {
	uc, _, contactRepo, _, _ := buildLeadUseCase(t)
	require.NoError(t, contactRepo.Create(&entity.Contact{ID: "ajeno", CompanyID: otherCompanyID}))

	_, err := uc.Create(leadCompanyID, dto.CreateLeadRequest{ContactID: "ajeno", Title: "x"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadChangeStage_AvanceValido(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)

	out := advanceTo(t, uc, lead.ID, entity.LeadStageContactado, entity.LeadStageCotizado)

	assert.Equal(t, entity.LeadStageCotizado, out.Stage)
	assert.Nil(t, out.ClosedAt, "una etapa intermedia no cierra el lead")
}

func TestLeadChangeStage_SaltoInvalido(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)

	// nuevo -> ganado no está permitido: hay que pasar por contactado y cotizado.
	_, err := uc.ChangeStage(leadCompanyID, lead.ID, dto.ChangeLeadStageRequest{Stage: entity.LeadStageGanado})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLeadChangeStage_EtapaTerminalNoSeMueve(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)
	advanceTo(t, uc, lead.ID, entity.LeadStageContactado, entity.LeadStagePerdido)

	_, err := uc.ChangeStage(leadCompanyID, lead.ID, dto.ChangeLeadStageRequest{Stage: entity.LeadStageContactado})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "perdido es terminal")
}

func TestLeadChangeStage_PerdidoFijaClosedAt(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)

	out := advanceTo(t, uc, lead.ID, entity.LeadStageContactado, entity.LeadStagePerdido)

	require.NotNil(t, out.ClosedAt)
	assert.WithinDuration(t, time.Now(), *out.ClosedAt, 2*time.Second)
}

func TestLeadChangeStage_GanadoCreaOrdenPendiente(t *testing.T) {
	uc, _, _, jobRepo, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)

	out := advanceTo(t, uc, lead.ID,
		entity.LeadStageContactado, entity.LeadStageCotizado, entity.LeadStageGanado)

	assert.Equal(t, entity.LeadStageGanado, out.Stage)
	require.NotNil(t, out.ClosedAt)

	jobs, err := jobRepo.ListByCompany(leadCompanyID, entity.JobStatusPendiente, 10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1, "ganar el lead debe crear exactamente una orden pendiente")
	job := jobs[0]
	assert.Equal(t, contactID, job.ContactID)
	assert.Equal(t, lead.Title, job.Title)
	// La orden hereda la dirección del contacto.
	assert.Equal(t, "Finca La Esperanza km 4", job.Address)
	assert.Equal(t, "Palmira", job.City)
	assert.Nil(t, job.TechnicianID, "la orden nace sin técnico asignado")
}

func TestLeadChangeStage_OtraEmpresa_Forbidden(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)

	_, err := uc.ChangeStage(otherCompanyID, lead.ID, dto.ChangeLeadStageRequest{Stage: entity.LeadStageContactado})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLeadDelete_CerradoNoSeElimina(t *testing.T) {
	uc, _, _, _, contactID := buildLeadUseCase(t)
	lead := createLead(t, uc, contactID)
	advanceTo(t, uc, lead.ID, entity.LeadStageContactado, entity.LeadStagePerdido)

	err := uc.Delete(leadCompanyID, lead.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPipelineBoard_IncluyeEtapasVacias(t *testing.T) {
	uc, leadRepo, _, _, _ := buildLeadUseCase(t)
	leadRepo.summary = []repository.PipelineStageResult{
		{Stage: entity.LeadStageNuevo, LeadCount: 3, TotalValue: decimal.NewFromInt(1_000_000)},
		{Stage: entity.LeadStageGanado, LeadCount: 1, TotalValue: decimal.NewFromInt(8_500_000)},
	}

	board, err := uc.PipelineBoard(context.Background(), leadCompanyID)
	require.NoError(t, err)

	require.Len(t, board.Stages, len(entity.LeadStages), "el tablero trae todas las etapas")
	byStage := make(map[string]dto.PipelineStageDTO)
	for _, s := range board.Stages {
		byStage[s.Stage] = s
	}
	assert.Equal(t, int64(3), byStage[entity.LeadStageNuevo].LeadCount)
	assert.True(t, byStage[entity.LeadStageGanado].TotalValue.Equal(decimal.NewFromInt(8_500_000)))
	assert.Equal(t, int64(0), byStage[entity.LeadStageCotizado].LeadCount, "etapa sin leads va en cero")
	assert.True(t, byStage[entity.LeadStagePerdido].TotalValue.IsZero())
	// El orden del tablero es el orden del pipeline.
	assert.Equal(t, entity.LeadStageNuevo, board.Stages[0].Stage)
	assert.Equal(t, entity.LeadStagePerdido, board.Stages[len(board.Stages)-1].Stage)
}
