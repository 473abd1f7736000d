package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/authz"
	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/application/usecase"
	"github.com/gestaosst/sst-api/internal/domain"
)

// CompanyHandler empresas cliente del tenant.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar empresa
// @Description  La empresa queda en el tenant del actor; el super_admin indica el tenant destino en el cuerpo.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "name, cnpj y, para super_admin, tenantId"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := authz.Authorize(p, authz.OpCompaniesWrite, p.TenantID, nil).Err(); err != nil {
		return writeDomainError(c, err)
	}
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	company, err := h.uc.Create(p, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// Get godoc
// @Summary      Obtener empresa
// @Tags         companies
// @Produce      json
// @Param        id  path  string  true  "id de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	company, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	// La política se evalúa con el tenant REAL del recurso: una empresa
	// ajena devuelve 403 con razón de cruce de tenant.
	if err := authz.Authorize(p, authz.OpCompaniesRead, company.TenantID, nil).Err(); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(company)
}

// Update godoc
// @Summary      Actualizar empresa
// @Description  El tenant de una empresa es inmutable; solo cambian nombre y estado.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "campos a modificar"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	current, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := authz.Authorize(p, authz.OpCompaniesWrite, current.TenantID, nil).Err(); err != nil {
		return writeDomainError(c, err)
	}
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	company, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(company)
}

// List godoc
// @Summary      Listar empresas del tenant
// @Tags         companies
// @Produce      json
// @Param        limit   query  int  false  "máximo por página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.PageResponse[dto.CompanyResponse]
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := authz.Authorize(p, authz.OpCompaniesRead, p.TenantID, nil).Err(); err != nil {
		return writeDomainError(c, err)
	}
	if p.TenantID == "" {
		// super_admin sin tenant: no hay listado implícito.
		return writeDomainError(c, domain.ErrInvalidInput)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.ListByTenant(p.TenantID, page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
