package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

const (
	// llmCompleteTimeout límite para la respuesta del LLM en intención general.
	llmCompleteTimeout = 10 * time.Second
	// historyWindow turnos recientes que se envían al modelo como contexto.
	historyWindow = 20
	// titleMaxLen largo máximo del título derivado del primer mensaje.
	titleMaxLen = 60

	systemPrompt = "Eres el asistente de un CRM de servicios en campo para empresas colombianas. " +
		"Respondes en español, breve y al grano, sobre contactos, visitas, cotizaciones y facturas. " +
		"Si te preguntan algo fuera del negocio, declinas con cortesía."
)

// UseCase el asistente: responde preguntas sobre la operación con datos
// reales del CRM, y delega en el LLM lo que no sabe responder solo.
type UseCase struct {
	chatRepo    repository.ChatRepository
	jobRepo     repository.JobRepository
	invoiceRepo repository.InvoiceRepository
	leadRepo    repository.LeadRepository
	classifier  *IntentClassifier
	llm         ports.LLMService
}

// NewUseCase construye el asistente.
func NewUseCase(
	chatRepo repository.ChatRepository,
	jobRepo repository.JobRepository,
	invoiceRepo repository.InvoiceRepository,
	leadRepo repository.LeadRepository,
	classifier *IntentClassifier,
	llm ports.LLMService,
) *UseCase {
	return &UseCase{
		chatRepo:    chatRepo,
		jobRepo:     jobRepo,
		invoiceRepo: invoiceRepo,
		leadRepo:    leadRepo,
		classifier:  classifier,
		llm:         llm,
	}
}

// Ask procesa un mensaje del usuario: persiste el turno, clasifica la
// intención y responde con datos del CRM o con el LLM.
func (uc *UseCase) Ask(ctx context.Context, companyID, userID string, in dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, domain.ErrInvalidInput
	}
	conv, err := uc.resolveConversation(companyID, userID, in.ConversationID, message)
	if err != nil {
		return nil, err
	}

	intent := uc.classifier.Classify(ctx, message)
	now := time.Now()
	userMsg := &entity.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           entity.ChatRoleUser,
		Content:        message,
		Intent:         intent,
		CreatedAt:      now,
	}
	if err := uc.chatRepo.CreateMessage(userMsg); err != nil {
		return nil, err
	}

	reply, err := uc.answer(ctx, companyID, conv.ID, intent, message)
	if err != nil {
		return nil, err
	}
	assistantMsg := &entity.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           entity.ChatRoleAssistant,
		Content:        reply,
		CreatedAt:      time.Now(),
	}
	if err := uc.chatRepo.CreateMessage(assistantMsg); err != nil {
		return nil, err
	}
	_ = uc.chatRepo.TouchConversation(conv.ID)

	return &dto.ChatResponse{
		ConversationID: conv.ID,
		Reply:          reply,
		Intent:         intent,
	}, nil
}

// ListConversations lista los hilos del usuario.
func (uc *UseCase) ListConversations(userID string, page dto.PageRequest) ([]dto.ConversationResponse, error) {
	page.DefaultPage()
	convs, err := uc.chatRepo.ListConversationsByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, dto.ConversationResponse{
			ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}

// GetMessages devuelve los mensajes de un hilo del usuario, en orden.
func (uc *UseCase) GetMessages(userID, conversationID string) ([]dto.ChatMessageResponse, error) {
	conv, err := uc.chatRepo.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, domain.ErrNotFound
	}
	if conv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	messages, err := uc.chatRepo.ListMessages(conversationID, 200)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ChatMessageResponse{
			ID: m.ID, Role: m.Role, Content: m.Content, Intent: m.Intent, CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (uc *UseCase) resolveConversation(companyID, userID, conversationID, firstMessage string) (*entity.Conversation, error) {
	if conversationID != "" {
		conv, err := uc.chatRepo.GetConversation(conversationID)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return nil, domain.ErrNotFound
		}
		if conv.UserID != userID {
			return nil, domain.ErrForbidden
		}
		return conv, nil
	}
	now := time.Now()
	title := firstMessage
	if len([]rune(title)) > titleMaxLen {
		title = string([]rune(title)[:titleMaxLen])
	}
	conv := &entity.Conversation{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.chatRepo.CreateConversation(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// answer responde según la intención. Las intenciones conocidas consultan
// la base directamente; la general va al LLM con el historial reciente.
func (uc *UseCase) answer(ctx context.Context, companyID, conversationID, intent, message string) (string, error) {
	switch intent {
	case entity.IntentAgenda:
		return uc.answerAgenda(ctx, companyID)
	case entity.IntentUnpaidInvoices:
		return uc.answerUnpaidInvoices(companyID)
	case entity.IntentPipeline:
		return uc.answerPipeline(ctx, companyID)
	default:
		return uc.answerGeneral(ctx, conversationID)
	}
}

func (uc *UseCase) answerAgenda(ctx context.Context, companyID string) (string, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)
	jobs, err := uc.jobRepo.ListAgenda(ctx, companyID, from, to, "")
	if err != nil {
		return "", fmt.Errorf("asistente: agenda: %w", err)
	}
	if len(jobs) == 0 {
		return "No hay visitas programadas para hoy.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hay %d visita(s) programada(s) para hoy:\n", len(jobs))
	for _, j := range jobs {
		fmt.Fprintf(&b, "- %s a las %s (%s)\n", j.Title, j.ScheduledStart.Format("15:04"), j.Address)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (uc *UseCase) answerUnpaidInvoices(companyID string) (string, error) {
	invoices, err := uc.invoiceRepo.ListByCompany(companyID, entity.InvoiceStatusEnviada, 100, 0)
	if err != nil {
		return "", fmt.Errorf("asistente: facturas pendientes: %w", err)
	}
	if len(invoices) == 0 {
		return "No hay facturas pendientes de pago.", nil
	}
	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "Hay %d factura(s) pendiente(s) de pago:\n", len(invoices))
	for _, i := range invoices {
		status := ""
		if i.EffectiveStatus(now) == entity.InvoiceStatusVencida {
			status = " (vencida)"
		}
		fmt.Fprintf(&b, "- %s por $%s%s\n", i.Number, i.GrandTotal.StringFixed(2), status)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (uc *UseCase) answerPipeline(ctx context.Context, companyID string) (string, error) {
	summary, err := uc.leadRepo.PipelineSummary(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("asistente: pipeline: %w", err)
	}
	if len(summary) == 0 {
		return "El pipeline está vacío.", nil
	}
	var b strings.Builder
	b.WriteString("Estado del pipeline:\n")
	for _, s := range summary {
		fmt.Fprintf(&b, "- %s: %d lead(s) por $%s\n", s.Stage, s.LeadCount, s.TotalValue.StringFixed(2))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (uc *UseCase) answerGeneral(ctx context.Context, conversationID string) (string, error) {
	if uc.llm == nil {
		return "Por ahora solo puedo responder sobre agenda, facturas pendientes y pipeline.", nil
	}
	// El mensaje actual ya quedó persistido; el historial lo incluye.
	messages, err := uc.chatRepo.ListMessages(conversationID, historyWindow)
	if err != nil {
		return "", err
	}
	history := make([]ports.ChatTurn, 0, len(messages))
	for _, m := range messages {
		history = append(history, ports.ChatTurn{Role: m.Role, Content: m.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, llmCompleteTimeout)
	defer cancel()
	reply, err := uc.llm.Complete(ctx, systemPrompt, history)
	if err != nil {
		return "", fmt.Errorf("asistente: LLM: %w", err)
	}
	return reply, nil
}
