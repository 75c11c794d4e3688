package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/ServiCampo-api/docs"
	appanalytics "github.com/jhoicas/ServiCampo-api/internal/application/analytics"
	"github.com/jhoicas/ServiCampo-api/internal/application/auth"
	"github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/application/chat"
	"github.com/jhoicas/ServiCampo-api/internal/application/crm"
	"github.com/jhoicas/ServiCampo-api/internal/application/fieldservice"
	"github.com/jhoicas/ServiCampo-api/internal/application/usecase"
	infraai "github.com/jhoicas/ServiCampo-api/internal/infrastructure/ai"
	infraemail "github.com/jhoicas/ServiCampo-api/internal/infrastructure/email"
	infrapayment "github.com/jhoicas/ServiCampo-api/internal/infrastructure/payment"
	infrapdf "github.com/jhoicas/ServiCampo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ServiCampo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ServiCampo-api/internal/infrastructure/realtime"
	"github.com/jhoicas/ServiCampo-api/internal/infrastructure/scheduler"
	infrasms "github.com/jhoicas/ServiCampo-api/internal/infrastructure/sms"
	httpRouter "github.com/jhoicas/ServiCampo-api/internal/interfaces/http"
	"github.com/jhoicas/ServiCampo-api/pkg/config"
	"github.com/jhoicas/ServiCampo-api/pkg/logger"
)

// @title        ServiCampo API
// @version      1.0
// @description  CRM multi-tenant para empresas de servicio en campo: contactos, pipeline, órdenes de servicio, cotizaciones, facturación y asistente de IA.
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	estimateRepo := postgres.NewEstimateRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	integrationRepo := postgres.NewIntegrationRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Adaptadores externos
	hub := realtime.NewHub()
	emailSender := infraemail.NewGomailSender(infraemail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	smsSender := infrasms.NewTwilioClient(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber)
	paymentSvc := infrapayment.NewStripeService(infrapayment.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
	})
	llmSvc := infraai.NewOpenAIService(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, contactRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo, contactRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	notificationUC := usecase.NewNotificationUseCase(notifRepo)
	documentUC := usecase.NewDocumentUseCase(documentRepo)
	integrationUC := usecase.NewIntegrationUseCase(integrationRepo)

	contactUC := crm.NewContactUseCase(contactRepo)
	leadUC := crm.NewLeadUseCase(leadRepo, contactRepo, jobRepo)
	inboundSMSUC := crm.NewInboundSMSUseCase(contactRepo, userRepo, notifRepo, hub)

	jobUC := fieldservice.NewJobUseCase(jobRepo, contactRepo, hub)
	scheduleUC := fieldservice.NewScheduleUseCase(txRunner, jobRepo, userRepo, notifRepo, hub)

	estimateUC := billing.NewEstimateUseCase(txRunner, estimateRepo, contactRepo, companyRepo, jobRepo, emailSender, pdfGenerator)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, contactRepo, companyRepo, userRepo, notifRepo, emailSender, paymentSvc, pdfGenerator, hub)
	pdfUC := billing.NewPDFUseCase(estimateRepo, invoiceRepo, companyRepo, contactRepo, pdfGenerator)

	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, leadRepo)

	classifier := chat.NewIntentClassifier(llmSvc)
	chatUC := chat.NewUseCase(chatRepo, jobRepo, invoiceRepo, leadRepo, classifier, llmSvc)

	// Recordatorios de visita (cron en background)
	reminders := scheduler.NewReminderScheduler(jobRepo, contactRepo, smsSender, emailSender, log)
	if err := reminders.Start(); err != nil {
		log.Fatal().Err(err).Msg("arrancar scheduler de recordatorios")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 * 1024 * 1024, // adjuntos de hasta 10 MB más overhead multipart
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ServiCampo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  cfg.App.Name,
			"ws_users": hub.ConnectedUsers(),
		})
	})

	wsHandler := httpRouter.NewWSHandler(hub, chatUC, cfg.JWT.Secret)
	webhookHandler := httpRouter.NewWebhookHandler(paymentSvc, invoiceUC, inboundSMSUC, cfg.SMS.WebhookToken)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CompanyUC:      companyUC,
		UserUC:         userUC,
		ModuleService:  moduleSvc,
		ContactUC:      contactUC,
		LeadUC:         leadUC,
		JobUC:          jobUC,
		ScheduleUC:     scheduleUC,
		EstimateUC:     estimateUC,
		InvoiceUC:      invoiceUC,
		PDFUC:          pdfUC,
		DashboardUC:    dashboardUC,
		NotificationUC: notificationUC,
		DocumentUC:     documentUC,
		IntegrationUC:  integrationUC,
		ChatUC:         chatUC,
		WS:             wsHandler,
		Webhooks:       webhookHandler,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	reminders.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
