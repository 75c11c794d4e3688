package fieldservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/fieldservice"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory
// ──────────────────────────────────────────────────────────────────────────────

type memJobRepo struct {
	jobs map[string]*entity.Job
}

func newMemJobRepo() *memJobRepo { return &memJobRepo{jobs: make(map[string]*entity.Job)} }

func (r *memJobRepo) Create(j *entity.Job) error {
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *memJobRepo) GetByID(id string) (*entity.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *memJobRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range r.jobs {
		if j.CompanyID == companyID && (status == "" || j.Status == status) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memJobRepo) ListAgenda(_ context.Context, companyID string, from, to time.Time, technicianID string) ([]*entity.Job, error) {
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

func (r *memJobRepo) ListByTechnician(technicianID, status string, limit, offset int) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range r.jobs {
		if j.TechnicianID != nil && *j.TechnicianID == technicianID && (status == "" || j.Status == status) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memJobRepo) Update(j *entity.Job) error {
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *memJobRepo) HasOverlap(_ context.Context, technicianID string, start, end time.Time, excludeJobID string) (bool, error) {
	for _, j := range r.jobs {
		if j.ID == excludeJobID || j.TechnicianID == nil || *j.TechnicianID != technicianID {
			continue
		}
		if j.ScheduledStart == nil || j.ScheduledEnd == nil {
			continue
		}
		// Cruce de intervalos [start, end) vs [ScheduledStart, ScheduledEnd)
		if start.Before(*j.ScheduledEnd) && j.ScheduledStart.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memJobRepo) ListUpcomingWithoutReminder(_ context.Context, from, to time.Time) ([]*entity.Job, error) {
	return nil, nil
}

func (r *memJobRepo) MarkReminderSent(_ context.Context, jobID string) error {
	if j, ok := r.jobs[jobID]; ok {
		j.ReminderSent = true
	}
	return nil
}

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: make(map[string]*entity.User)} }

func (r *memUserRepo) Create(u *entity.User) error { r.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}
func (r *memUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) ListByCompany(companyID, role, status string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.CompanyID == companyID && (role == "" || u.Role == role) && (status == "" || u.Status == status) {
			out = append(out, u)
		}
	}
	return out, nil
}
func (r *memUserRepo) Update(u *entity.User) error { r.users[u.ID] = u; return nil }

type memNotifRepo struct {
	created []*entity.Notification
}

func (r *memNotifRepo) Create(n *entity.Notification) error {
	r.created = append(r.created, n)
	return nil
}
func (r *memNotifRepo) ListByUser(userID string, onlyUnread bool, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}
func (r *memNotifRepo) CountUnread(userID string) (int64, error) { return int64(len(r.created)), nil }
func (r *memNotifRepo) MarkRead(id, userID string) error         { return nil }
func (r *memNotifRepo) MarkAllRead(userID string) error          { return nil }

// memPublisher registra los eventos publicados.
type memPublisher struct {
	toUser    map[string][]dto.RealtimeEvent
	toCompany map[string][]dto.RealtimeEvent
}

func newMemPublisher() *memPublisher {
	return &memPublisher{
		toUser:    make(map[string][]dto.RealtimeEvent),
		toCompany: make(map[string][]dto.RealtimeEvent),
	}
}

func (p *memPublisher) PublishToUser(userID string, event dto.RealtimeEvent) {
	p.toUser[userID] = append(p.toUser[userID], event)
}

func (p *memPublisher) PublishToCompany(companyID string, event dto.RealtimeEvent) {
	p.toCompany[companyID] = append(p.toCompany[companyID], event)
}

// memTxRunner ejecuta la función directamente contra el repo (sin transacción real).
type memTxRunner struct {
	jobRepo repository.JobRepository
}

func (t *memTxRunner) RunScheduling(_ context.Context, fn func(repository.JobRepository) error) error {
	return fn(t.jobRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	schedCompanyID = "00000000-0000-0000-0000-0000000000aa"
	techID         = "00000000-0000-0000-0000-0000000000t1"
	otherTechID    = "00000000-0000-0000-0000-0000000000t2"
)

type scheduleFixture struct {
	uc        *fieldservice.ScheduleUseCase
	jobRepo   *memJobRepo
	userRepo  *memUserRepo
	notifRepo *memNotifRepo
	publisher *memPublisher
}

func buildScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	jobRepo := newMemJobRepo()
	userRepo := newMemUserRepo()
	notifRepo := &memNotifRepo{}
	publisher := newMemPublisher()
	require.NoError(t, userRepo.Create(&entity.User{
		ID: techID, CompanyID: schedCompanyID, Name: "Carlos Técnico", Role: entity.RoleTecnico,
	}))
	require.NoError(t, userRepo.Create(&entity.User{
		ID: otherTechID, CompanyID: schedCompanyID, Name: "Diana Técnica", Role: entity.RoleTecnico,
	}))
	uc := fieldservice.NewScheduleUseCase(&memTxRunner{jobRepo: jobRepo}, jobRepo, userRepo, notifRepo, publisher)
	return &scheduleFixture{uc: uc, jobRepo: jobRepo, userRepo: userRepo, notifRepo: notifRepo, publisher: publisher}
}

func (f *scheduleFixture) newPendingJob(t *testing.T, id string) *entity.Job {
	t.Helper()
	job := &entity.Job{
		ID:        id,
		CompanyID: schedCompanyID,
		ContactID: "contact-1",
		Title:     "Mantenimiento bomba",
		Status:    entity.JobStatusPendiente,
	}
	require.NoError(t, f.jobRepo.Create(job))
	return job
}

func window(dayOffset, startHour, endHour int) (time.Time, time.Time) {
	base := time.Now().AddDate(0, 0, dayOffset)
	start := time.Date(base.Year(), base.Month(), base.Day(), startHour, 0, 0, 0, time.Local)
	end := time.Date(base.Year(), base.Month(), base.Day(), endHour, 0, 0, 0, time.Local)
	return start, end
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSchedule_AsignaTecnicoYVentana(t *testing.T) {
	f := buildScheduleFixture(t)
	f.newPendingJob(t, "job-1")
	start, end := window(1, 9, 11)

	out, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: end,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.JobStatusProgramado, out.Status)
	require.NotNil(t, out.TechnicianID)
	assert.Equal(t, techID, *out.TechnicianID)
	require.NotNil(t, out.ScheduledStart)
	assert.True(t, out.ScheduledStart.Equal(start))

	// El técnico recibe notificación in-app y evento en tiempo real.
	require.Len(t, f.notifRepo.created, 1)
	assert.Equal(t, entity.NotifJobScheduled, f.notifRepo.created[0].Type)
	assert.Equal(t, techID, f.notifRepo.created[0].UserID)
	assert.Len(t, f.publisher.toUser[techID], 1)
}

func TestSchedule_CruceDeAgenda_Rechazado(t *testing.T) {
	f := buildScheduleFixture(t)
	f.newPendingJob(t, "job-1")
	f.newPendingJob(t, "job-2")
	start, end := window(1, 9, 11)

	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: end,
	})
	require.NoError(t, err)

	// Misma franja, mismo técnico → cruce.
	overlapStart := start.Add(30 * time.Minute)
	overlapEnd := end.Add(30 * time.Minute)
	_, err = f.uc.Schedule(context.Background(), schedCompanyID, "job-2", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: overlapStart, ScheduledEnd: overlapEnd,
	})
	assert.ErrorIs(t, err, domain.ErrScheduleOverlap)

	// Otro técnico en la misma franja sí puede.
	_, err = f.uc.Schedule(context.Background(), schedCompanyID, "job-2", dto.ScheduleJobRequest{
		TechnicianID: otherTechID, ScheduledStart: overlapStart, ScheduledEnd: overlapEnd,
	})
	assert.NoError(t, err)
}

func TestSchedule_ReagendarMismaOrden_NoChocaConsigoMisma(t *testing.T) {
	f := buildScheduleFixture(t)
	f.newPendingJob(t, "job-1")
	start, end := window(1, 9, 11)

	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: end,
	})
	require.NoError(t, err)

	// Reagendar la misma orden en franja que se cruza con la suya propia.
	newStart := start.Add(time.Hour)
	newEnd := end.Add(time.Hour)
	out, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: newStart, ScheduledEnd: newEnd,
	})
	require.NoError(t, err, "la orden no debe chocar consigo misma al reagendar")
	assert.True(t, out.ScheduledStart.Equal(newStart))
}

func TestSchedule_VentanaInvalida(t *testing.T) {
	f := buildScheduleFixture(t)
	f.newPendingJob(t, "job-1")
	start, _ := window(1, 9, 11)

	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: start,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fin debe ser posterior al inicio")
}

func TestSchedule_AsignadoNoEsTecnico(t *testing.T) {
	f := buildScheduleFixture(t)
	f.newPendingJob(t, "job-1")
	require.NoError(t, f.userRepo.Create(&entity.User{
		ID: "admin-1", CompanyID: schedCompanyID, Role: entity.RoleAdmin,
	}))
	start, end := window(1, 9, 11)

	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: "admin-1", ScheduledStart: start, ScheduledEnd: end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedule_OrdenCompletadaNoSeAgenda(t *testing.T) {
	f := buildScheduleFixture(t)
	job := f.newPendingJob(t, "job-1")
	job.Status = entity.JobStatusCompletado
	require.NoError(t, f.jobRepo.Update(job))
	start, end := window(1, 9, 11)

	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: end,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAgenda_FiltraPorRangoYTecnico(t *testing.T) {
	f := buildScheduleFixture(t)
	f.newPendingJob(t, "job-1")
	f.newPendingJob(t, "job-2")
	f.newPendingJob(t, "job-3")

	s1, e1 := window(1, 9, 11)
	s2, e2 := window(2, 14, 16)
	s3, e3 := window(20, 9, 11) // fuera de la semana por defecto

	mustSchedule := func(jobID, tech string, s, e time.Time) {
		_, err := f.uc.Schedule(context.Background(), schedCompanyID, jobID, dto.ScheduleJobRequest{
			TechnicianID: tech, ScheduledStart: s, ScheduledEnd: e,
		})
		require.NoError(t, err)
	}
	mustSchedule("job-1", techID, s1, e1)
	mustSchedule("job-2", otherTechID, s2, e2)
	mustSchedule("job-3", techID, s3, e3)

	// Rango por defecto: hoy + 7 días → job-1 y job-2.
	out, err := f.uc.Agenda(context.Background(), schedCompanyID, dto.AgendaQuery{})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	// Filtrado por técnico.
	out, err = f.uc.Agenda(context.Background(), schedCompanyID, dto.AgendaQuery{TechnicianID: techID})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "job-1", out[0].ID)
}

func TestChangeStatus_TecnicoSoloMueveSusOrdenes(t *testing.T) {
	f := buildScheduleFixture(t)
	contactRepo := newMemContactRepo()
	jobUC := fieldservice.NewJobUseCase(f.jobRepo, contactRepo, f.publisher)
	f.newPendingJob(t, "job-1")
	start, end := window(1, 9, 11)
	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: end,
	})
	require.NoError(t, err)

	// Otro técnico no puede mover la orden.
	_, err = jobUC.ChangeStatus(schedCompanyID, "job-1", otherTechID, entity.RoleTecnico, dto.ChangeJobStatusRequest{
		Status: entity.JobStatusEnCamino,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// El técnico asignado sí.
	out, err := jobUC.ChangeStatus(schedCompanyID, "job-1", techID, entity.RoleTecnico, dto.ChangeJobStatusRequest{
		Status: entity.JobStatusEnCamino,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusEnCamino, out.Status)
}

func TestChangeStatus_CompletarFijaCompletedAt(t *testing.T) {
	f := buildScheduleFixture(t)
	contactRepo := newMemContactRepo()
	jobUC := fieldservice.NewJobUseCase(f.jobRepo, contactRepo, f.publisher)
	f.newPendingJob(t, "job-1")
	start, end := window(1, 9, 11)
	_, err := f.uc.Schedule(context.Background(), schedCompanyID, "job-1", dto.ScheduleJobRequest{
		TechnicianID: techID, ScheduledStart: start, ScheduledEnd: end,
	})
	require.NoError(t, err)

	advance := func(status string) *dto.JobResponse {
		out, err := jobUC.ChangeStatus(schedCompanyID, "job-1", techID, entity.RoleTecnico, dto.ChangeJobStatusRequest{
			Status: status, WorkNotes: "cambio de filtros",
		})
		require.NoError(t, err)
		return out
	}
	advance(entity.JobStatusEnCamino)
	advance(entity.JobStatusEnProgreso)
	out := advance(entity.JobStatusCompletado)

	require.NotNil(t, out.CompletedAt)
	assert.Equal(t, "cambio de filtros", out.WorkNotes)

	// Saltarse el flujo no está permitido: completado es terminal.
	_, err = jobUC.ChangeStatus(schedCompanyID, "job-1", techID, entity.RoleTecnico, dto.ChangeJobStatusRequest{
		Status: entity.JobStatusEnCamino,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// memContactRepo fake mínimo para JobUseCase.
type memContactRepo struct {
	contacts map[string]*entity.Contact
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: make(map[string]*entity.Contact)}
}

func (r *memContactRepo) Create(c *entity.Contact) error { r.contacts[c.ID] = c; return nil }
func (r *memContactRepo) GetByID(id string) (*entity.Contact, error) {
	return r.contacts[id], nil
}
func (r *memContactRepo) GetByCompanyAndEmail(companyID, email string) (*entity.Contact, error) {
	return nil, nil
}
func (r *memContactRepo) GetByCompanyAndPhone(companyID, phone string) (*entity.Contact, error) {
	return nil, nil
}
func (r *memContactRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error) {
	return nil, nil
}
func (r *memContactRepo) Search(companyID, pattern string, limit, offset int) ([]*entity.Contact, error) {
	return nil, nil
}
func (r *memContactRepo) Update(c *entity.Contact) error { return nil }
func (r *memContactRepo) Delete(id string) error         { return nil }
