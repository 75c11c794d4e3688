package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ServiCampo-api/internal/application/auth"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// UserUseCase administración de usuarios desde el back-office:
// técnicos, clientes del portal y otros admins.
type UserUseCase struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, contactRepo repository.ContactRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, contactRepo: contactRepo}
}

// Create crea un usuario en la empresa. Para rol cliente, ContactID es
// obligatorio y debe apuntar a un contacto de la misma empresa.
func (uc *UserUseCase) Create(companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if existing, _ := uc.userRepo.GetByEmailAndCompany(in.Email, companyID); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	var contactID *string
	if in.Role == entity.RoleCliente {
		if in.ContactID == nil {
			return nil, domain.ErrInvalidInput
		}
		contact, err := uc.contactRepo.GetByID(*in.ContactID)
		if err != nil {
			return nil, err
		}
		if contact == nil || contact.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		contactID = in.ContactID
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         in.Role,
		Status:       "active",
		ContactID:    contactID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// GetByID obtiene un usuario de la empresa.
func (uc *UserUseCase) GetByID(companyID, id string) (*dto.UserResponse, error) {
	user, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// List lista usuarios de la empresa; role vacío = todos. activeOnly deja
// fuera cuentas inactivas o suspendidas (directorio de técnicos para agendar).
// El filtro baja al repositorio para que la paginación opere sobre el
// conjunto ya filtrado.
func (uc *UserUseCase) List(companyID, role string, activeOnly bool, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	status := ""
	if activeOnly {
		status = "active"
	}
	users, err := uc.userRepo.ListByCompany(companyID, role, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// Update edita nombre/teléfono/estado de un usuario; campos nil no se tocan.
func (uc *UserUseCase) Update(companyID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

func (uc *UserUseCase) getOwned(companyID, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if user.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
