// Package scheduler ejecuta tareas periódicas: el recordatorio de visita
// que se envía por SMS (o correo si el contacto no tiene teléfono) el día
// anterior.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
	"github.com/jhoicas/ServiCampo-api/pkg/logger"
)

const (
	// reminderSpec corre cada 15 minutos.
	reminderSpec = "*/15 * * * *"
	// reminderWindow ventana hacia adelante: visitas que inician en las
	// próximas 24 horas y aún no tienen recordatorio.
	reminderWindow = 24 * time.Hour
	// runTimeout límite de una corrida completa.
	runTimeout = 2 * time.Minute
)

// ReminderScheduler recorre las órdenes programadas próximas y envía el
// recordatorio al contacto. Marca reminder_sent para no repetir.
type ReminderScheduler struct {
	jobRepo     repository.JobRepository
	contactRepo repository.ContactRepository
	smsSender   ports.SMSSender
	emailSender ports.EmailSender
	log         *logger.Logger
	cron        *cron.Cron
}

// NewReminderScheduler construye el scheduler (sin arrancarlo).
func NewReminderScheduler(jobRepo repository.JobRepository, contactRepo repository.ContactRepository, smsSender ports.SMSSender, emailSender ports.EmailSender, log *logger.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		jobRepo:     jobRepo,
		contactRepo: contactRepo,
		smsSender:   smsSender,
		emailSender: emailSender,
		log:         log,
		cron:        cron.New(),
	}
}

// Start registra el cron y lo arranca en background.
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(reminderSpec, s.run); err != nil {
		return fmt.Errorf("scheduler: registrar cron: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", reminderSpec).Msg("scheduler de recordatorios iniciado")
	return nil
}

// Stop detiene el cron y espera a que termine la corrida en curso.
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// run una corrida: busca visitas próximas sin recordatorio y las procesa.
// Los fallos de envío se loguean y se reintentan en la siguiente corrida
// (la orden queda sin marcar).
func (s *ReminderScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	now := time.Now()
	jobs, err := s.jobRepo.ListUpcomingWithoutReminder(ctx, now, now.Add(reminderWindow))
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: listar visitas próximas")
		return
	}
	if len(jobs) == 0 {
		return
	}
	sent := 0
	for _, job := range jobs {
		contact, err := s.contactRepo.GetByID(job.ContactID)
		if err != nil || contact == nil {
			s.log.Warn().Str("job_id", job.ID).Msg("scheduler: contacto no encontrado")
			continue
		}
		if contact.Phone == "" && contact.Email == "" {
			// Sin teléfono ni correo no hay a quién recordar; se marca para no reintentar.
			_ = s.jobRepo.MarkReminderSent(ctx, job.ID)
			continue
		}
		body := fmt.Sprintf("Recordatorio: visita técnica \"%s\" el %s. Si necesita reprogramar, contáctenos.",
			job.Title, job.ScheduledStart.Format("02/01 15:04"))
		if err := s.deliver(ctx, contact.Phone, contact.Email, body); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Msg("scheduler: enviar recordatorio")
			continue
		}
		if err := s.jobRepo.MarkReminderSent(ctx, job.ID); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Msg("scheduler: marcar recordatorio")
			continue
		}
		sent++
	}
	s.log.Info().Int("total", len(jobs)).Int("enviados", sent).Msg("scheduler: corrida de recordatorios")
}

// deliver prefiere SMS; sin teléfono cae a correo.
func (s *ReminderScheduler) deliver(ctx context.Context, phone, email, body string) error {
	if phone != "" {
		return s.smsSender.Send(ctx, phone, body)
	}
	return s.emailSender.Send(ctx, email, "Recordatorio de visita", "<p>"+body+"</p>")
}
