package usecase

import (
	"strings"
	"time"

	"github.com/gestaosst/sst-api/internal/application/auth"
	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantUseCase aprovisiona y administra tenants. Solo el super_admin
// llega acá; la política lo garantiza antes.
type TenantUseCase struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	authCfg config.AuthConfig
	log     *logger.Logger
}

func NewTenantUseCase(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	authCfg config.AuthConfig,
	log *logger.Logger,
) *TenantUseCase {
	return &TenantUseCase{tenants: tenants, users: users, authCfg: authCfg, log: log}
}

// Create aprovisiona un tenant activo junto con su primer
// tenant_admin.
func (uc *TenantUseCase) Create(req dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.AdminEmail) == "" || len(req.AdminPassword) < 8 {
		return nil, domain.ErrInvalidInput
	}
	if req.Plan != entity.PlanBasico && req.Plan != entity.PlanProfissional {
		return nil, domain.ErrInvalidInput
	}
	price, err := decimal.NewFromString(req.PlanPrice)
	if err != nil || price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	hash, err := auth.HashPassword(req.AdminPassword, uc.authCfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &entity.Tenant{
		ID:                uuid.NewString(),
		Name:              name,
		Plan:              req.Plan,
		Status:            entity.TenantActive,
		PaymentStatus:     entity.PaymentPending,
		PlanPrice:         price,
		SubscriptionStart: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.tenants.Create(tenant); err != nil {
		return nil, err
	}

	admin := &entity.User{
		ID:           uuid.NewString(),
		TenantID:     &tenant.ID,
		Email:        strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		PasswordHash: &hash,
		Name:         strings.TrimSpace(req.AdminName),
		Role:         entity.RoleTenantAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Un tenant sin su primer admin es un huérfano inoperable: si el
	// alta del admin falla (p.ej. email ya tomado) se revierte el tenant
	// recién insertado.
	if err := uc.users.Create(admin); err != nil {
		if derr := uc.tenants.Delete(tenant.ID); derr != nil {
			uc.log.Error().Err(derr).Str("tenant_id", tenant.ID).Msg("no se pudo revertir el tenant tras fallar el alta del admin")
		}
		return nil, err
	}

	uc.log.Info().Str("tenant_id", tenant.ID).Str("plan", tenant.Plan).Msg("tenant aprovisionado")

	resp := toTenantResponse(tenant)
	return &resp, nil
}

// Get devuelve un tenant por id.
func (uc *TenantUseCase) Get(id string) (*dto.TenantResponse, error) {
	tenant, err := uc.tenants.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	resp := toTenantResponse(tenant)
	return &resp, nil
}

// List devuelve todos los tenants, paginados.
func (uc *TenantUseCase) List(page dto.PageRequest) (*dto.PageResponse[dto.TenantResponse], error) {
	page.Normalize()
	tenants, err := uc.tenants.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, toTenantResponse(t))
	}
	return &dto.PageResponse[dto.TenantResponse]{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}

// UpdateStatus transiciona el estado del ciclo de vida del tenant.
// Expirar o suspender un tenant invalida sus sesiones en el próximo
// request, sin tocar los tokens emitidos.
func (uc *TenantUseCase) UpdateStatus(id string, req dto.UpdateTenantStatusRequest) error {
	switch req.Status {
	case entity.TenantActive, entity.TenantExpired, entity.TenantSuspended:
	default:
		return domain.ErrInvalidInput
	}
	tenant, err := uc.tenants.GetByID(id)
	if err != nil {
		return err
	}
	if tenant == nil {
		return domain.ErrNotFound
	}
	if err := uc.tenants.UpdateStatus(id, req.Status); err != nil {
		return err
	}
	uc.log.Info().Str("tenant_id", id).Str("status", req.Status).Msg("estado de tenant actualizado")
	return nil
}

func toTenantResponse(t *entity.Tenant) dto.TenantResponse {
	resp := dto.TenantResponse{
		ID:                t.ID,
		Name:              t.Name,
		Plan:              t.Plan,
		PlanPrice:         t.PlanPrice.StringFixed(2),
		Status:            t.Status,
		PaymentStatus:     t.PaymentStatus,
		SubscriptionStart: t.SubscriptionStart.Format(time.RFC3339),
	}
	if t.SubscriptionEnd != nil {
		s := t.SubscriptionEnd.Format(time.RFC3339)
		resp.SubscriptionEnd = &s
	}
	return resp
}
