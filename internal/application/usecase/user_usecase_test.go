package usecase_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/usecase"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// pagingUserRepo emula la consulta real: filtra por empresa, rol y estado
// ANTES de aplicar LIMIT/OFFSET, ordenando por nombre.
type pagingUserRepo struct {
	repository.UserRepository
	users []*entity.User

	gotStatus string
}

func (r *pagingUserRepo) ListByCompany(companyID, role, status string, limit, offset int) ([]*entity.User, error) {
	r.gotStatus = status
	var filtered []*entity.User
	for _, u := range r.users {
		if u.CompanyID != companyID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		filtered = append(filtered, u)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func seedUsers(companyID string) []*entity.User {
	// Técnicos activos e inactivos intercalados por nombre: si el filtro
	// de estado se aplicara después de paginar, la primera página saldría corta.
	return []*entity.User{
		{ID: "u1", CompanyID: companyID, Name: "Andrés", Role: entity.RoleTecnico, Status: "active"},
		{ID: "u2", CompanyID: companyID, Name: "Beatriz", Role: entity.RoleTecnico, Status: "inactive"},
		{ID: "u3", CompanyID: companyID, Name: "Carlos", Role: entity.RoleTecnico, Status: "active"},
		{ID: "u4", CompanyID: companyID, Name: "Diana", Role: entity.RoleTecnico, Status: "suspended"},
		{ID: "u5", CompanyID: companyID, Name: "Esteban", Role: entity.RoleTecnico, Status: "active"},
		{ID: "u6", CompanyID: companyID, Name: "Fernanda", Role: entity.RoleAdmin, Status: "active"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestUserList_ActivosPaginaCompleta(t *testing.T) {
	const companyID = "comp-1"
	repo := &pagingUserRepo{users: seedUsers(companyID)}
	uc := usecase.NewUserUseCase(repo, nil)

	// Página de 3: hay exactamente 3 técnicos activos, la página debe
	// venir llena aunque entre ellos haya inactivos y suspendidos.
	out, err := uc.List(companyID, entity.RoleTecnico, true, dto.PageRequest{Limit: 3})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "active", repo.gotStatus, "el filtro de estado viaja al repositorio")
	for _, u := range out {
		assert.Equal(t, "active", u.Status)
	}
	assert.Equal(t, "Andrés", out[0].Name)
	assert.Equal(t, "Esteban", out[2].Name)
}

func TestUserList_SinFiltroDeEstado(t *testing.T) {
	const companyID = "comp-1"
	repo := &pagingUserRepo{users: seedUsers(companyID)}
	uc := usecase.NewUserUseCase(repo, nil)

	out, err := uc.List(companyID, entity.RoleTecnico, false, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, out, 5, "sin activeOnly entran también inactivos y suspendidos")
	assert.Empty(t, repo.gotStatus)
}
