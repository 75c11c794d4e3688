// Package ai implementa el puerto LLMService contra la API REST de OpenAI.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenAIService implementa LLMService.
var _ ports.LLMService = (*OpenAIService)(nil)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"

	classifySystemPrompt = `Clasificas mensajes de usuarios de un CRM de servicios en campo.
Responde ÚNICAMENTE con una de las etiquetas permitidas, sin comillas ni texto adicional.`
)

// OpenAIService adaptador que implementa LLMService usando la API REST de OpenAI.
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type OpenAIService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIService construye el adaptador.
// model suele ser "gpt-4o-mini".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewOpenAIService(apiKey, model string) *OpenAIService {
	return &OpenAIService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de red de 25 s; el use case impone además un context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Chat Completions ───────────────────────

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Complete genera la respuesta del asistente con el historial de la conversación.
func (s *OpenAIService) Complete(ctx context.Context, systemPrompt string, history []ports.ChatTurn) (string, error) {
	messages := make([]openAIMessage, 0, len(history)+1)
	messages = append(messages, openAIMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, openAIMessage{Role: turn.Role, Content: turn.Content})
	}
	return s.call(ctx, openAIRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.3,
	})
}

// ClassifyIntent pide al modelo elegir una etiqueta; devuelve la etiqueta tal cual.
func (s *OpenAIService) ClassifyIntent(ctx context.Context, message string, labels []string) (string, error) {
	userContent := fmt.Sprintf("Etiquetas permitidas: %s\nMensaje: %s", strings.Join(labels, ", "), message)
	reply, err := s.call(ctx, openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: classifySystemPrompt},
			{Role: "user", Content: userContent},
		},
		MaxTokens:   16,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.Trim(strings.TrimSpace(reply), `"'.`)), nil
}

func (s *OpenAIService) call(ctx context.Context, payload openAIRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}
	var parsed openAIResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return "", fmt.Errorf("AI: respuesta no es JSON (HTTP %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("AI: error de la API (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return "", fmt.Errorf("AI: respuesta inesperada (HTTP %d)", resp.StatusCode)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
