// Package fieldservice contiene los casos de uso de órdenes de servicio
// y agendamiento de visitas en campo.
package fieldservice

import (
	"context"

	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con el repo de órdenes.
// La verificación de cruce de horario y la asignación del técnico deben ser
// atómicas: dos agendamientos concurrentes no pueden pasar ambos el chequeo.
type TxRunner interface {
	RunScheduling(ctx context.Context, fn func(
		jobRepo repository.JobRepository,
	) error) error
}
