package entity

import "time"

// Tipos de notificación interna.
const (
	NotifJobScheduled = "job_scheduled"
	NotifJobStatus    = "job_status"
	NotifInvoicePaid  = "invoice_paid"
	NotifEstimate     = "estimate_decision"
	NotifInboundSMS   = "inbound_sms"
)

// Notification notificación in-app para un usuario.
type Notification struct {
	ID        string
	CompanyID string
	UserID    string
	Type      string // ver constantes Notif*
	Title     string
	Body      string
	EntityID  string // id de la entidad relacionada (job, invoice, ...), opcional
	ReadAt    *time.Time
	CreatedAt time.Time
}

// IsRead indica si el usuario ya leyó la notificación.
func (n *Notification) IsRead() bool { return n.ReadAt != nil }
