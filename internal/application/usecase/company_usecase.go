package usecase

import (
	"strings"
	"time"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/google/uuid"
)

// CompanyUseCase administra las empresas cliente de un tenant.
type CompanyUseCase struct {
	companies repository.CompanyRepository
	tenants   repository.TenantRepository
	log       *logger.Logger
}

func NewCompanyUseCase(
	companies repository.CompanyRepository,
	tenants repository.TenantRepository,
	log *logger.Logger,
) *CompanyUseCase {
	return &CompanyUseCase{companies: companies, tenants: tenants, log: log}
}

// Create registra una empresa en el tenant del actor. El CNPJ se
// normaliza a 14 dígitos y es único dentro del tenant. El super_admin
// no tiene tenant propio: tiene que indicar uno explícito, que debe
// existir y estar vigente. Una empresa jamás queda sin tenant.
func (uc *CompanyUseCase) Create(actor entity.Principal, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(req.Name)
	cnpj := onlyDigits(req.CNPJ)
	if name == "" || len(cnpj) != 14 {
		return nil, domain.ErrInvalidInput
	}

	tenantID := actor.TenantID
	if actor.Role == entity.RoleSuperAdmin {
		tenantID = req.TenantID
	}
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if actor.Role == entity.RoleSuperAdmin {
		tenant, err := uc.tenants.GetByID(tenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, domain.ErrNotFound
		}
		if !tenant.IsActive() {
			return nil, domain.ErrInvalidInput
		}
	}

	existing, err := uc.companies.GetByCNPJ(tenantID, cnpj)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		CNPJ:      cnpj,
		Status:    entity.CompanyActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companies.Create(company); err != nil {
		return nil, err
	}

	uc.log.Info().Str("company_id", company.ID).Str("tenant_id", company.TenantID).Msg("empresa registrada")

	resp := toCompanyResponse(company)
	return &resp, nil
}

// Get devuelve una empresa por id. La verificación de tenant la hace
// el handler con la política, usando el TenantID devuelto.
func (uc *CompanyUseCase) Get(id string) (*dto.CompanyResponse, error) {
	company, err := uc.companies.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCompanyResponse(company)
	return &resp, nil
}

// GetEntity expone la entidad para decisiones de autorización.
func (uc *CompanyUseCase) GetEntity(id string) (*entity.Company, error) {
	return uc.companies.GetByID(id)
}

// Update modifica nombre o estado. El tenant de la empresa no cambia
// nunca por esta vía.
func (uc *CompanyUseCase) Update(id string, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.companies.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.CompanyActive, entity.CompanyInactive:
			company.Status = *req.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	company.UpdatedAt = time.Now()

	if err := uc.companies.Update(company); err != nil {
		return nil, err
	}
	resp := toCompanyResponse(company)
	return &resp, nil
}

// ListByTenant devuelve las empresas del tenant, paginadas.
func (uc *CompanyUseCase) ListByTenant(tenantID string, page dto.PageRequest) (*dto.PageResponse[dto.CompanyResponse], error) {
	page.Normalize()
	companies, err := uc.companies.ListByTenant(tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		items = append(items, toCompanyResponse(c))
	}
	return &dto.PageResponse[dto.CompanyResponse]{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:       c.ID,
		TenantID: c.TenantID,
		Name:     c.Name,
		CNPJ:     c.CNPJ,
		Status:   c.Status,
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
