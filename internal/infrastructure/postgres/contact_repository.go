package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
	"github.com/jhoicas/ServiCampo-api/pkg/textutil"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación de ContactRepository (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador.
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, company_id, name, email, phone, address, city, source, notes, created_at, updated_at`

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.City, &c.Source, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo contacto. name_folded guarda el nombre normalizado
// (minúsculas, sin tildes) para la búsqueda.
func (r *ContactRepo) Create(contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `, name_folded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.CompanyID, contact.Name, contact.Email, contact.Phone,
		contact.Address, contact.City, contact.Source, contact.Notes,
		contact.CreatedAt, contact.UpdatedAt, textutil.Fold(contact.Name),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(id string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(context.Background(),
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// GetByCompanyAndEmail obtiene un contacto por empresa y email (detección de duplicados).
func (r *ContactRepo) GetByCompanyAndEmail(companyID, email string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(context.Background(),
		`SELECT `+contactColumns+` FROM contacts WHERE company_id = $1 AND lower(email) = lower($2)`,
		companyID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact by email: %w", err)
	}
	return c, nil
}

// GetByCompanyAndPhone obtiene un contacto por teléfono (webhook de SMS entrante).
func (r *ContactRepo) GetByCompanyAndPhone(companyID, phone string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(context.Background(),
		`SELECT `+contactColumns+` FROM contacts WHERE company_id = $1 AND phone = $2`,
		companyID, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact by phone: %w", err)
	}
	return c, nil
}

// ListByCompany lista contactos de la empresa con paginación.
func (r *ContactRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// Search busca contactos por nombre/email/teléfono. La columna name_folded guarda
// el nombre en minúsculas y sin tildes; pattern ya viene normalizado igual
// (textutil.FoldPattern), así la búsqueda ignora acentos en ambos lados.
func (r *ContactRepo) Search(companyID, pattern string, limit, offset int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE company_id = $1
		  AND (name_folded LIKE $2 OR lower(email) LIKE $2 OR phone LIKE $2)
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func collectContacts(rows pgx.Rows) ([]*entity.Contact, error) {
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un contacto.
func (r *ContactRepo) Update(contact *entity.Contact) error {
	query := `
		UPDATE contacts SET name = $2, email = $3, phone = $4, address = $5,
			city = $6, source = $7, notes = $8, updated_at = $9, name_folded = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Address,
		contact.City, contact.Source, contact.Notes, contact.UpdatedAt,
		textutil.Fold(contact.Name),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// Delete elimina un contacto por ID.
func (r *ContactRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict // tiene leads, órdenes o facturas asociadas
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
