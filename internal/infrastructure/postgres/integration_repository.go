package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.IntegrationRepository = (*IntegrationRepo)(nil)

// IntegrationRepo implementación de IntegrationRepository.
// Settings se persiste como JSONB; pgx lo mapea a map[string]string directo.
type IntegrationRepo struct {
	q Querier
}

// NewIntegrationRepository construye el adaptador.
func NewIntegrationRepository(q Querier) *IntegrationRepo {
	return &IntegrationRepo{q: q}
}

// Upsert crea o reemplaza la configuración del proveedor para la empresa.
func (r *IntegrationRepo) Upsert(integration *entity.Integration) error {
	query := `
		INSERT INTO integrations (id, company_id, provider, settings, secret, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, provider) DO UPDATE
			SET settings = EXCLUDED.settings,
			    secret = EXCLUDED.secret,
			    is_active = EXCLUDED.is_active,
			    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		integration.ID, integration.CompanyID, integration.Provider, integration.Settings,
		integration.Secret, integration.IsActive, integration.CreatedAt, integration.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert integration: %w", err)
	}
	return nil
}

// GetByProvider obtiene la configuración de un proveedor.
func (r *IntegrationRepo) GetByProvider(companyID, provider string) (*entity.Integration, error) {
	var i entity.Integration
	err := r.q.QueryRow(context.Background(), `
		SELECT id, company_id, provider, settings, secret, is_active, created_at, updated_at
		FROM integrations WHERE company_id = $1 AND provider = $2`, companyID, provider).Scan(
		&i.ID, &i.CompanyID, &i.Provider, &i.Settings, &i.Secret, &i.IsActive,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get integration: %w", err)
	}
	return &i, nil
}

// ListByCompany lista las integraciones de la empresa.
func (r *IntegrationRepo) ListByCompany(companyID string) ([]*entity.Integration, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, company_id, provider, settings, secret, is_active, created_at, updated_at
		FROM integrations WHERE company_id = $1 ORDER BY provider`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Integration
	for rows.Next() {
		var i entity.Integration
		if err := rows.Scan(&i.ID, &i.CompanyID, &i.Provider, &i.Settings, &i.Secret,
			&i.IsActive, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// Deactivate desactiva el proveedor para la empresa.
func (r *IntegrationRepo) Deactivate(companyID, provider string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE integrations SET is_active = FALSE, updated_at = now()
		 WHERE company_id = $1 AND provider = $2`, companyID, provider)
	if err != nil {
		return fmt.Errorf("deactivate integration: %w", err)
	}
	return nil
}
