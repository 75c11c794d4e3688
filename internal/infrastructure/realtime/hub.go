// Package realtime mantiene las conexiones WebSocket activas y reparte
// eventos a usuarios y empresas.
package realtime

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
)

var _ ports.EventPublisher = (*Hub)(nil)

// Client una conexión WebSocket con su candado de escritura.
// gorilla/fasthttp no permiten escrituras concurrentes sobre la misma conexión.
type Client struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	userID    string
	companyID string
}

func (c *Client) send(event dto.RealtimeEvent) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(event)
}

// Hub registro en memoria de conexiones. Publicar a un usuario o empresa
// sin conexiones activas es un no-op: la notificación in-app persiste aparte.
type Hub struct {
	mu        sync.RWMutex
	byUser    map[string]map[*Client]struct{}
	byCompany map[string]map[*Client]struct{}
}

// NewHub construye el hub.
func NewHub() *Hub {
	return &Hub{
		byUser:    make(map[string]map[*Client]struct{}),
		byCompany: make(map[string]map[*Client]struct{}),
	}
}

// Register agrega la conexión al hub y devuelve el handle para Unregister.
func (h *Hub) Register(companyID, userID string, conn *websocket.Conn) *Client {
	c := &Client{conn: conn, userID: userID, companyID: companyID}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][c] = struct{}{}
	if h.byCompany[companyID] == nil {
		h.byCompany[companyID] = make(map[*Client]struct{})
	}
	h.byCompany[companyID][c] = struct{}{}
	return c
}

// Unregister retira la conexión; el caller cierra el socket.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.byUser[c.userID], c)
	if len(h.byUser[c.userID]) == 0 {
		delete(h.byUser, c.userID)
	}
	delete(h.byCompany[c.companyID], c)
	if len(h.byCompany[c.companyID]) == 0 {
		delete(h.byCompany, c.companyID)
	}
}

// ConnectedUsers número de usuarios con al menos una conexión activa.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser)
}

// PublishToUser envía el evento a todas las conexiones del usuario.
func (h *Hub) PublishToUser(userID string, event dto.RealtimeEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byUser[userID]))
	for c := range h.byUser[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	h.broadcast(clients, event)
}

// PublishToCompany envía el evento a todas las conexiones de la empresa.
func (h *Hub) PublishToCompany(companyID string, event dto.RealtimeEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byCompany[companyID]))
	for c := range h.byCompany[companyID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	h.broadcast(clients, event)
}

// broadcast escribe fuera del lock del hub; una conexión caída solo se
// loguea, el lector la retirará al detectar el cierre.
func (h *Hub) broadcast(clients []*Client, event dto.RealtimeEvent) {
	for _, c := range clients {
		if err := c.send(event); err != nil {
			log.Debug().Err(err).Str("user_id", c.userID).Msg("ws: conexión caída al publicar")
		}
	}
}
