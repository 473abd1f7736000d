package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/application/usecase"
)

// TenantHandler administración global de tenants (solo super_admin;
// lo garantiza RequireSuperAdmin en el router).
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Aprovisionar un tenant con su primer administrador
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "datos del tenant y su admin"
// @Success      201   {object}  dto.TenantResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tenant, err := h.uc.Create(in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tenant)
}

// Get godoc
// @Summary      Obtener un tenant
// @Tags         tenants
// @Produce      json
// @Param        id  path  string  true  "id del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	tenant, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(tenant)
}

// List godoc
// @Summary      Listar tenants
// @Tags         tenants
// @Produce      json
// @Success      200  {object}  dto.PageResponse[dto.TenantResponse]
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.List(page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado del tenant
// @Description  Expirar o suspender invalida las sesiones del tenant en el próximo request.
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del tenant"
// @Param        body  body  dto.UpdateTenantStatusRequest  true  "nuevo estado"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/status [put]
func (h *TenantHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTenantStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateStatus(c.Params("id"), in); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
