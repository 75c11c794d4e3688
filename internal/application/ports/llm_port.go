package ports

import "context"

// ChatTurn un turno del historial que se envía al modelo.
type ChatTurn struct {
	Role    string // user | assistant
	Content string
}

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (OpenAI, Ollama, mock) debe implementar esta interfaz.
// Siguiendo el principio de inversión de dependencias (DIP), el dominio/aplicación
// solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// Complete genera la respuesta del asistente dado el prompt de sistema
	// y el historial de la conversación.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Complete(ctx context.Context, systemPrompt string, history []ChatTurn) (string, error)

	// ClassifyIntent pide al modelo clasificar la intención del mensaje en una
	// de las etiquetas dadas; devuelve la etiqueta elegida.
	ClassifyIntent(ctx context.Context, message string, labels []string) (string, error)
}
