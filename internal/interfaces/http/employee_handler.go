package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/authz"
	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/application/usecase"
	"github.com/gestaosst/sst-api/internal/domain"
)

// EmployeeHandler colaboradores de las empresas del tenant.
type EmployeeHandler struct {
	uc        *usecase.EmployeeUseCase
	companies *usecase.CompanyUseCase
}

func NewEmployeeHandler(uc *usecase.EmployeeUseCase, companies *usecase.CompanyUseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, companies: companies}
}

// Create godoc
// @Summary      Registrar colaborador
// @Description  El tenant del colaborador se deriva de su empresa, nunca del request.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEmployeeRequest  true  "companyId, name, cpf"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.CreateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	company, err := h.companies.GetEntity(in.CompanyID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if company == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	if err := authz.Authorize(p, authz.OpEmployeesWrite, company.TenantID, &company.ID).Err(); err != nil {
		return writeDomainError(c, err)
	}

	employee, err := h.uc.Create(p, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

// Get godoc
// @Summary      Obtener colaborador
// @Tags         employees
// @Produce      json
// @Param        id  path  string  true  "id del colaborador"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	employee, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := authz.Authorize(p, authz.OpEmployeesRead, employee.TenantID, &employee.CompanyID).Err(); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(employee)
}

// ListByCompany godoc
// @Summary      Listar colaboradores de una empresa
// @Tags         employees
// @Produce      json
// @Param        id      path   string  true   "id de la empresa"
// @Param        limit   query  int     false  "máximo por página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.PageResponse[dto.EmployeeResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/employees [get]
func (h *EmployeeHandler) ListByCompany(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	company, err := h.companies.GetEntity(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if company == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	if err := authz.Authorize(p, authz.OpEmployeesRead, company.TenantID, &company.ID).Err(); err != nil {
		return writeDomainError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.ListByCompany(company.ID, page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
