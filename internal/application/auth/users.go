package auth

import (
	"strings"
	"time"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
)

// CreateUser da de alta un usuario dentro del tenant del creador. El
// tenant del nuevo usuario es siempre el del Principal que lo crea;
// el request no puede elegir otro.
func (uc *UseCase) CreateUser(creator entity.Principal, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(req.Role)
	if !role.Valid() || role == entity.RoleSuperAdmin {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(req.Name) == "" || len(req.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	// Todo usuario que no sea super_admin vive en un tenant; un creador
	// sin tenant (el super_admin) no tiene dónde colgarlo.
	if creator.TenantID == "" {
		return nil, domain.ErrInvalidInput
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	cpf := onlyDigits(req.CPF)
	if email == "" && cpf == "" {
		return nil, domain.ErrInvalidInput
	}
	if cpf != "" && len(cpf) != 11 {
		return nil, domain.ErrInvalidInput
	}

	// Si el usuario queda acotado a una empresa, esa empresa tiene que
	// pertenecer al mismo tenant que el creador.
	if req.CompanyID != nil {
		company, err := uc.companies.GetByID(*req.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil || company.TenantID != creator.TenantID {
			return nil, domain.ErrInvalidInput
		}
	}

	hash, err := HashPassword(req.Password, uc.authCfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenantID := creator.TenantID
	user := &entity.User{
		ID:           NewUserID(),
		TenantID:     &tenantID,
		Email:        email,
		CPF:          cpf,
		PasswordHash: &hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		CompanyID:    req.CompanyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.users.Create(user); err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("tenant_id", tenantID).Msg("usuario creado")

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateUser modifica nombre, rol o empresa de un usuario del mismo
// tenant. No permite escalar a super_admin.
func (uc *UseCase) UpdateUser(actor entity.Principal, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if actor.Role != entity.RoleSuperAdmin {
		if user.TenantID == nil || *user.TenantID != actor.TenantID {
			return nil, domain.ErrNotFound
		}
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		if !role.Valid() || role == entity.RoleSuperAdmin {
			return nil, domain.ErrInvalidInput
		}
		user.Role = role
	}
	if req.CompanyID != nil {
		company, err := uc.companies.GetByID(*req.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil || user.TenantID == nil || company.TenantID != *user.TenantID {
			return nil, domain.ErrInvalidInput
		}
		user.CompanyID = req.CompanyID
	}
	user.UpdatedAt = time.Now()

	if err := uc.users.Update(user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ListUsers devuelve los usuarios del tenant del actor, paginados.
func (uc *UseCase) ListUsers(actor entity.Principal, page dto.PageRequest) (*dto.PageResponse[dto.UserResponse], error) {
	page.Normalize()
	users, err := uc.users.ListByTenant(actor.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	return &dto.PageResponse[dto.UserResponse]{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}
