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

// EmployeeUseCase administra colaboradores. El tenant de cada
// colaborador se deriva de su empresa en el INSERT, nunca del request:
// la escritura no puede introducir la deriva que el guard repara.
type EmployeeUseCase struct {
	employees repository.EmployeeRepository
	companies repository.CompanyRepository
	log       *logger.Logger
}

func NewEmployeeUseCase(
	employees repository.EmployeeRepository,
	companies repository.CompanyRepository,
	log *logger.Logger,
) *EmployeeUseCase {
	return &EmployeeUseCase{employees: employees, companies: companies, log: log}
}

// Create da de alta un colaborador en una empresa del tenant del actor.
func (uc *EmployeeUseCase) Create(actor entity.Principal, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	name := strings.TrimSpace(req.Name)
	cpf := onlyDigits(req.CPF)
	if name == "" || len(cpf) != 11 || req.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}

	// La empresa tiene que existir y (salvo super_admin) pertenecer al
	// tenant del actor. El tenant del registro lo fija el repositorio a
	// partir de la empresa.
	company, err := uc.companies.GetByID(req.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if actor.Role != entity.RoleSuperAdmin && company.TenantID != actor.TenantID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	employee := &entity.Employee{
		ID:        uuid.NewString(),
		CompanyID: req.CompanyID,
		Name:      name,
		CPF:       cpf,
		Status:    entity.EmployeeActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.employees.Create(employee); err != nil {
		return nil, err
	}

	uc.log.Info().Str("employee_id", employee.ID).Str("company_id", employee.CompanyID).Msg("colaborador registrado")

	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// Get devuelve un colaborador por id.
func (uc *EmployeeUseCase) Get(id string) (*dto.EmployeeResponse, error) {
	employee, err := uc.employees.GetByID(id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrNotFound
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ListByCompany devuelve los colaboradores de una empresa, paginados.
func (uc *EmployeeUseCase) ListByCompany(companyID string, page dto.PageRequest) (*dto.PageResponse[dto.EmployeeResponse], error) {
	page.Normalize()
	employees, err := uc.employees.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, toEmployeeResponse(e))
	}
	return &dto.PageResponse[dto.EmployeeResponse]{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        e.ID,
		TenantID:  e.TenantID,
		CompanyID: e.CompanyID,
		Name:      e.Name,
		CPF:       e.CPF,
		Status:    e.Status,
	}
}
