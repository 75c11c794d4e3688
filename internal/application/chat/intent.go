// Package chat contiene el asistente conversacional: clasificación de
// intención y respuesta con datos del CRM o con el LLM.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/pkg/textutil"
)

// llmClassifyTimeout límite para la clasificación remota. Si el LLM no
// responde a tiempo, el mensaje queda como intención general.
const llmClassifyTimeout = 10 * time.Second

// Palabras clave por intención. Se comparan sin tildes ni mayúsculas.
var intentKeywords = map[string][]string{
	entity.IntentAgenda: {
		"agenda", "visita", "visitas", "cita", "citas", "programad", "hoy tengo", "que tengo hoy",
	},
	entity.IntentUnpaidInvoices: {
		"factura", "facturas", "cartera", "cobrar", "pendiente de pago", "sin pagar", "deben",
	},
	entity.IntentPipeline: {
		"pipeline", "lead", "leads", "oportunidad", "oportunidades", "embudo", "ventas abiertas",
	},
}

// classifierLabels etiquetas que se le ofrecen al LLM como fallback.
var classifierLabels = []string{
	entity.IntentAgenda, entity.IntentUnpaidInvoices, entity.IntentPipeline, entity.IntentGeneral,
}

// IntentClassifier clasifica el mensaje del usuario: primero por palabras
// clave (gratis y determinista), y si no hay match, pregunta al LLM.
type IntentClassifier struct {
	llm ports.LLMService
}

// NewIntentClassifier construye el clasificador.
func NewIntentClassifier(llm ports.LLMService) *IntentClassifier {
	return &IntentClassifier{llm: llm}
}

// Classify devuelve la intención del mensaje. Nunca falla: ante cualquier
// error del LLM responde IntentGeneral.
func (c *IntentClassifier) Classify(ctx context.Context, message string) string {
	if intent := classifyByKeywords(message); intent != "" {
		return intent
	}
	if c.llm == nil {
		return entity.IntentGeneral
	}
	ctx, cancel := context.WithTimeout(ctx, llmClassifyTimeout)
	defer cancel()
	label, err := c.llm.ClassifyIntent(ctx, message, classifierLabels)
	if err != nil {
		return entity.IntentGeneral
	}
	for _, known := range classifierLabels {
		if label == known {
			return label
		}
	}
	return entity.IntentGeneral
}

// classifyByKeywords busca palabras clave en el mensaje normalizado.
// Devuelve "" si ninguna intención casa.
func classifyByKeywords(message string) string {
	folded := textutil.Fold(message)
	for _, intent := range []string{entity.IntentAgenda, entity.IntentUnpaidInvoices, entity.IntentPipeline} {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(folded, kw) {
				return intent
			}
		}
	}
	return ""
}
