package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/analytics"
	"github.com/jhoicas/ServiCampo-api/internal/application/auth"
	"github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/application/chat"
	"github.com/jhoicas/ServiCampo-api/internal/application/crm"
	"github.com/jhoicas/ServiCampo-api/internal/application/fieldservice"
	"github.com/jhoicas/ServiCampo-api/internal/application/usecase"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase
	ModuleService  *usecase.ModuleService
	ContactUC      *crm.ContactUseCase
	LeadUC         *crm.LeadUseCase
	JobUC          *fieldservice.JobUseCase
	ScheduleUC     *fieldservice.ScheduleUseCase
	EstimateUC     *billing.EstimateUseCase
	InvoiceUC      *billing.InvoiceUseCase
	PDFUC          *billing.PDFUseCase
	DashboardUC    *analytics.DashboardUseCase
	NotificationUC *usecase.NotificationUseCase
	DocumentUC     *usecase.DocumentUseCase
	IntegrationUC  *usecase.IntegrationUseCase
	ChatUC         *chat.UseCase
	WS             *WSHandler
	Webhooks       *WebhookHandler
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Alta de empresa (público: onboarding de un tenant nuevo)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Webhooks (públicos: autenticados por firma o token compartido)
	webhooks := app.Group("/webhooks")
	webhooks.Post("/stripe", deps.Webhooks.Stripe)
	webhooks.Post("/sms/:companyID", deps.Webhooks.InboundSMS)

	// WebSocket (JWT en ?token=)
	ws := app.Group("/ws", deps.WS.Upgrade)
	ws.Get("/events", deps.WS.Events())
	ws.Get("/chat", deps.WS.Chat())

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Empresa propia y módulos (solo admin)
	company := protected.Group("/company", RequireRole(entity.RoleAdmin))
	company.Get("/", companyHandler.GetOwn)
	company.Put("/", companyHandler.Update)
	company.Get("/modules", companyHandler.ListModules)
	company.Post("/modules", companyHandler.ActivateModule)

	// Usuarios (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// CRM: contactos y pipeline (admin; requiere módulo crm)
	crmGroup := protected.Group("/", RequireRole(entity.RoleAdmin), RequireModule(entity.ModuleCRM, deps.ModuleService))
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts := crmGroup.Group("/contacts")
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Put("/:id", contactHandler.Update)
	contacts.Delete("/:id", contactHandler.Delete)

	leadHandler := NewLeadHandler(deps.LeadUC)
	leads := crmGroup.Group("/leads")
	leads.Get("/pipeline", leadHandler.PipelineBoard)
	leads.Post("/", leadHandler.Create)
	leads.Get("/", leadHandler.List)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id", leadHandler.Update)
	leads.Patch("/:id/stage", leadHandler.ChangeStage)
	leads.Delete("/:id", leadHandler.Delete)

	// Órdenes de servicio y agenda (admin; requiere módulo scheduling)
	jobHandler := NewJobHandler(deps.JobUC, deps.ScheduleUC)
	jobs := protected.Group("/jobs", RequireRole(entity.RoleAdmin), RequireModule(entity.ModuleScheduling, deps.ModuleService))
	jobs.Get("/agenda", jobHandler.Agenda)
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Put("/:id", jobHandler.Update)
	jobs.Post("/:id/schedule", jobHandler.Schedule)
	jobs.Patch("/:id/status", jobHandler.ChangeStatus)

	// Facturación: cotizaciones y facturas (admin; requiere módulo billing)
	billingGroup := protected.Group("/", RequireRole(entity.RoleAdmin), RequireModule(entity.ModuleBilling, deps.ModuleService))
	estimateHandler := NewEstimateHandler(deps.EstimateUC, deps.PDFUC)
	estimates := billingGroup.Group("/estimates")
	estimates.Post("/", estimateHandler.Create)
	estimates.Get("/", estimateHandler.List)
	estimates.Get("/:id", estimateHandler.GetByID)
	estimates.Post("/:id/send", estimateHandler.Send)
	estimates.Post("/:id/decision", estimateHandler.Decide)
	estimates.Get("/:id/pdf", estimateHandler.DownloadPDF)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices := billingGroup.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Analytics (admin; requiere módulo analytics)
	analyticsHandler := NewAnalyticsHandler(deps.DashboardUC)
	analyticsGroup := protected.Group("/analytics", RequireRole(entity.RoleAdmin), RequireModule(entity.ModuleAnalytics, deps.ModuleService))
	analyticsGroup.Get("/dashboard", analyticsHandler.Dashboard)

	// Integraciones (admin; requiere módulo integrations)
	integrationHandler := NewIntegrationHandler(deps.IntegrationUC)
	integrations := protected.Group("/integrations", RequireRole(entity.RoleAdmin), RequireModule(entity.ModuleIntegrations, deps.ModuleService))
	integrations.Put("/", integrationHandler.Upsert)
	integrations.Get("/", integrationHandler.List)
	integrations.Delete("/:provider", integrationHandler.Deactivate)

	// Notificaciones in-app (cualquier rol autenticado)
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Adjuntos (admin y técnico)
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents := protected.Group("/documents", RequireRole(entity.RoleAdmin, entity.RoleTecnico))
	documents.Post("/", documentHandler.Upload)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.Download)
	documents.Delete("/:id", documentHandler.Delete)

	// Asistente del negocio (admin y técnico)
	chatHandler := NewChatHandler(deps.ChatUC)
	chatGroup := protected.Group("/chat", RequireRole(entity.RoleAdmin, entity.RoleTecnico))
	chatGroup.Post("/", chatHandler.Ask)
	chatGroup.Get("/conversations", chatHandler.ListConversations)
	chatGroup.Get("/conversations/:id", chatHandler.GetMessages)

	// Portal técnico: el técnico trabaja sus propias órdenes
	tech := protected.Group("/portal/tech", RequireRole(entity.RoleTecnico), RequireModule(entity.ModuleScheduling, deps.ModuleService))
	tech.Get("/jobs", jobHandler.MyJobs)
	tech.Get("/agenda", jobHandler.MyAgenda)
	tech.Patch("/jobs/:id/status", jobHandler.ChangeStatus)

	// Portal cliente: documentos del contacto vinculado
	portalHandler := NewPortalHandler(deps.UserUC, deps.EstimateUC, deps.InvoiceUC)
	client := protected.Group("/portal/client", RequireRole(entity.RoleCliente), RequireModule(entity.ModuleBilling, deps.ModuleService))
	client.Get("/estimates", portalHandler.MyEstimates)
	client.Get("/invoices", portalHandler.MyInvoices)
	client.Post("/estimates/:id/decision", portalHandler.DecideEstimate)
}
