package entity

import "time"

// Proveedores de integración configurables por empresa.
const (
	ProviderSMTP   = "smtp"
	ProviderSMS    = "sms"
	ProviderStripe = "stripe"
	ProviderAI     = "ai"
)

// Integration credenciales y ajustes de un proveedor externo para una empresa.
// Settings guarda pares clave/valor no sensibles; Secret guarda la credencial
// (API key, token) y nunca se devuelve completa por la API.
type Integration struct {
	ID        string
	CompanyID string
	Provider  string // ver constantes Provider*
	Settings  map[string]string
	Secret    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
