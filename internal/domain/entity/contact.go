package entity

import "time"

// Contact representa una persona u organización del CRM (cliente actual o potencial).
type Contact struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	Phone     string // E.164 preferido; se usa para casar SMS entrantes
	Address   string
	City      string
	Source    string // web, referido, llamada, campaña
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
