package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etapas del pipeline de ventas. ganado y perdido son terminales.
const (
	LeadStageNuevo      = "nuevo"
	LeadStageContactado = "contactado"
	LeadStageCotizado   = "cotizado"
	LeadStageGanado     = "ganado"
	LeadStagePerdido    = "perdido"
)

// LeadStages en orden de avance del pipeline (para el tablero).
var LeadStages = []string{
	LeadStageNuevo, LeadStageContactado, LeadStageCotizado, LeadStageGanado, LeadStagePerdido,
}

// leadTransitions define las transiciones permitidas entre etapas.
// perdido es alcanzable desde cualquier etapa no terminal.
var leadTransitions = map[string][]string{
	LeadStageNuevo:      {LeadStageContactado, LeadStagePerdido},
	LeadStageContactado: {LeadStageCotizado, LeadStagePerdido},
	LeadStageCotizado:   {LeadStageGanado, LeadStagePerdido},
}

// CanTransitionLead indica si el cambio de etapa from -> to está permitido.
func CanTransitionLead(from, to string) bool {
	for _, allowed := range leadTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Lead representa una oportunidad de venta asociada a un contacto.
type Lead struct {
	ID         string
	CompanyID  string
	ContactID  string
	Title      string
	Stage      string // ver constantes LeadStage*
	Value      decimal.Decimal
	Source     string
	AssignedTo *string // user_id del vendedor/admin responsable
	Notes      string
	ClosedAt   *time.Time // se fija al pasar a ganado o perdido
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsClosed indica si el lead está en etapa terminal.
func (l *Lead) IsClosed() bool {
	return l.Stage == LeadStageGanado || l.Stage == LeadStagePerdido
}
