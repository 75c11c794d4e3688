// seed_demo genera un script SQL con datos de demostración: una empresa con
// todos los módulos activos, usuarios de cada rol, contactos, leads y una
// orden de servicio de ejemplo.
//
// Uso: go run ./cmd/seed_demo [email_admin] [password]
// Por defecto crea admin@demo.servicampo.co / servicampo123.
// Escribe: scripts/seed_demo.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const outPath = "scripts/seed_demo.sql"

func main() {
	adminEmail := "admin@demo.servicampo.co"
	password := "servicampo123"
	if len(os.Args) > 1 {
		adminEmail = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashear password: %v\n", err)
		os.Exit(1)
	}

	companyID := uuid.NewString()
	adminID := uuid.NewString()
	tecnicoID := uuid.NewString()
	clienteID := uuid.NewString()
	contactoAnaID := uuid.NewString()
	contactoFincaID := uuid.NewString()
	leadID := uuid.NewString()
	jobID := uuid.NewString()

	var b strings.Builder
	b.WriteString("-- Datos de demostración ServiCampo. Generado por cmd/seed_demo.\n")
	b.WriteString("BEGIN;\n\n")

	fmt.Fprintf(&b, "INSERT INTO companies (id, name, nit, address, city, phone, email, status)\nVALUES ('%s', 'Riegos del Valle SAS', '901234567-8', 'Cra 45 #12-30', 'Palmira', '+573001112233', 'contacto@riegosdelvalle.co', 'active');\n\n", companyID)

	for _, module := range []string{"crm", "scheduling", "billing", "analytics", "integrations"} {
		fmt.Fprintf(&b, "INSERT INTO company_modules (id, company_id, module_name, is_active, activated_at)\nVALUES ('%s', '%s', '%s', TRUE, NOW());\n", uuid.NewString(), companyID, module)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "INSERT INTO contacts (id, company_id, name, email, phone, address, city, source)\nVALUES ('%s', '%s', 'Ana Quintero', 'ana.quintero@example.com', '+573015550101', 'Finca La Esperanza km 4', 'Palmira', 'referido');\n", contactoAnaID, companyID)
	fmt.Fprintf(&b, "INSERT INTO contacts (id, company_id, name, email, phone, address, city, source)\nVALUES ('%s', '%s', 'Agropecuaria San Jorge', 'compras@sanjorge.example.com', '+573015550202', 'Vereda El Placer', 'Pradera', 'web');\n\n", contactoFincaID, companyID)

	fmt.Fprintf(&b, "INSERT INTO users (id, company_id, email, password_hash, name, phone, role, status)\nVALUES ('%s', '%s', '%s', '%s', 'Administrador Demo', '+573000000001', 'admin', 'active');\n", adminID, companyID, adminEmail, hash)
	fmt.Fprintf(&b, "INSERT INTO users (id, company_id, email, password_hash, name, phone, role, status)\nVALUES ('%s', '%s', 'tecnico@demo.servicampo.co', '%s', 'Carlos Técnico', '+573000000002', 'tecnico', 'active');\n", tecnicoID, companyID, hash)
	fmt.Fprintf(&b, "INSERT INTO users (id, company_id, email, password_hash, name, phone, role, status, contact_id)\nVALUES ('%s', '%s', 'ana.quintero@example.com', '%s', 'Ana Quintero', '+573015550101', 'cliente', 'active', '%s');\n\n", clienteID, companyID, hash, contactoAnaID)

	fmt.Fprintf(&b, "INSERT INTO leads (id, company_id, contact_id, title, stage, value, source)\nVALUES ('%s', '%s', '%s', 'Instalación riego por goteo 2 ha', 'cotizado', 8500000, 'referido');\n\n", leadID, companyID, contactoAnaID)

	fmt.Fprintf(&b, "INSERT INTO jobs (id, company_id, contact_id, technician_id, title, description, status, address, city, scheduled_start, scheduled_end)\nVALUES ('%s', '%s', '%s', '%s', 'Mantenimiento bomba de riego', 'Revisión preventiva y cambio de filtros', 'programado', 'Vereda El Placer', 'Pradera', NOW() + INTERVAL '1 day', NOW() + INTERVAL '1 day 2 hours');\n\n", jobID, companyID, contactoFincaID, tecnicoID)

	b.WriteString("COMMIT;\n")

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Script generado: %s\n", outPath)
	fmt.Printf("Credenciales admin: %s / %s\n", adminEmail, password)
}
