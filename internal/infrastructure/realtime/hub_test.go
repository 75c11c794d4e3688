package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
)

// Los tests usan conexiones nil: mientras no se publique hacia un cliente,
// el hub nunca toca el socket.

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	assert.Equal(t, 0, h.ConnectedUsers())

	c1 := h.Register("comp-1", "user-1", nil)
	c2 := h.Register("comp-1", "user-2", nil)
	assert.Equal(t, 2, h.ConnectedUsers())

	// Segunda pestaña del mismo usuario: no suma usuarios.
	c3 := h.Register("comp-1", "user-1", nil)
	assert.Equal(t, 2, h.ConnectedUsers())

	h.Unregister(c1)
	assert.Equal(t, 2, h.ConnectedUsers(), "user-1 aún tiene otra conexión")

	h.Unregister(c3)
	assert.Equal(t, 1, h.ConnectedUsers())

	h.Unregister(c2)
	assert.Equal(t, 0, h.ConnectedUsers())
	assert.Empty(t, h.byUser)
	assert.Empty(t, h.byCompany)
}

func TestHub_UnregisterIdempotente(t *testing.T) {
	h := NewHub()
	c := h.Register("comp-1", "user-1", nil)
	h.Unregister(c)
	h.Unregister(c) // retirar dos veces no debe romper nada
	assert.Equal(t, 0, h.ConnectedUsers())
}

func TestHub_PublishSinConexionesEsNoOp(t *testing.T) {
	h := NewHub()
	// No debe entrar en pánico ni bloquear.
	h.PublishToUser("nadie", dto.RealtimeEvent{Type: "job_scheduled"})
	h.PublishToCompany("ninguna", dto.RealtimeEvent{Type: "job_status"})
}

func TestHub_IndicesPorEmpresa(t *testing.T) {
	h := NewHub()
	h.Register("comp-1", "user-1", nil)
	h.Register("comp-2", "user-2", nil)
	c := h.Register("comp-2", "user-3", nil)

	assert.Len(t, h.byCompany["comp-1"], 1)
	assert.Len(t, h.byCompany["comp-2"], 2)

	h.Unregister(c)
	assert.Len(t, h.byCompany["comp-2"], 1)
}
