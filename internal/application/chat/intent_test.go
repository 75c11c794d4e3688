package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ServiCampo-api/internal/application/chat"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// fakeLLM responde la etiqueta configurada (o falla).
type fakeLLM struct {
	label  string
	fail   bool
	called bool
}

func (f *fakeLLM) Complete(_ context.Context, _ string, _ []ports.ChatTurn) (string, error) {
	return "respuesta del modelo", nil
}

func (f *fakeLLM) ClassifyIntent(_ context.Context, _ string, _ []string) (string, error) {
	f.called = true
	if f.fail {
		return "", fmt.Errorf("openai: rate limit")
	}
	return f.label, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación por palabras clave — no debe tocar el LLM
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify_PorPalabrasClave(t *testing.T) {
	casos := []struct {
		mensaje string
		intent  string
	}{
		{"¿Qué visitas tengo hoy?", entity.IntentAgenda},
		{"muéstrame la agenda de mañana", entity.IntentAgenda},
		{"cuánta cartera tenemos por cobrar", entity.IntentUnpaidInvoices},
		{"facturas sin pagar del mes", entity.IntentUnpaidInvoices},
		{"cómo va el pipeline", entity.IntentPipeline},
		{"cuántas oportunidades abiertas hay", entity.IntentPipeline},
		// Tildes y mayúsculas no deben importar.
		{"FACTURAS PENDIENTES", entity.IntentUnpaidInvoices},
		{"¿Cuántas CITAS tengo PROGRAMADAS?", entity.IntentAgenda},
	}
	for _, tc := range casos {
		t.Run(tc.mensaje, func(t *testing.T) {
			llm := &fakeLLM{label: entity.IntentGeneral}
			c := chat.NewIntentClassifier(llm)

			got := c.Classify(context.Background(), tc.mensaje)

			assert.Equal(t, tc.intent, got)
			assert.False(t, llm.called, "con match por keyword no se debe llamar al LLM")
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallback al LLM
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify_SinKeywordUsaLLM(t *testing.T) {
	llm := &fakeLLM{label: entity.IntentPipeline}
	c := chat.NewIntentClassifier(llm)

	got := c.Classify(context.Background(), "¿en qué va lo de don Jorge?")

	assert.Equal(t, entity.IntentPipeline, got)
	assert.True(t, llm.called)
}

func TestClassify_LLMFallaRespondeGeneral(t *testing.T) {
	llm := &fakeLLM{fail: true}
	c := chat.NewIntentClassifier(llm)

	got := c.Classify(context.Background(), "hola, ¿cómo estás?")

	assert.Equal(t, entity.IntentGeneral, got, "un error del LLM nunca debe propagarse")
}

func TestClassify_EtiquetaDesconocidaDelLLM(t *testing.T) {
	// El modelo a veces inventa etiquetas fuera de la lista ofrecida.
	llm := &fakeLLM{label: "clima"}
	c := chat.NewIntentClassifier(llm)

	got := c.Classify(context.Background(), "va a llover esta semana?")

	assert.Equal(t, entity.IntentGeneral, got)
}

func TestClassify_SinLLMConfigurado(t *testing.T) {
	c := chat.NewIntentClassifier(nil)

	got := c.Classify(context.Background(), "mensaje sin keywords")

	assert.Equal(t, entity.IntentGeneral, got)
}
