package entity

import "time"

// Roles válidos para User.
// admin opera el back-office completo; tecnico y cliente acceden a sus portales.
const (
	RoleAdmin   = "admin"
	RoleTecnico = "tecnico"
	RoleCliente = "cliente"
)

// User representa un usuario del sistema (pertenece a una Company).
// Los técnicos son usuarios con rol tecnico; no hay tabla separada.
// Los clientes del portal se vinculan a su Contact vía ContactID.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         string  // admin, tecnico, cliente
	Status       string  // active, inactive, suspended
	ContactID    *string // solo para rol cliente: el contacto del CRM que representa
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
