package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/consistency"
	"github.com/gestaosst/sst-api/internal/application/dto"
)

// ConsistencyHandler expone el guardián de consistencia de tenant para
// administración global (solo super_admin; lo garantiza el router).
type ConsistencyHandler struct {
	guard *consistency.Guard
}

func NewConsistencyHandler(guard *consistency.Guard) *ConsistencyHandler {
	return &ConsistencyHandler{guard: guard}
}

// Audit godoc
// @Summary      Auditar deriva de tenant
// @Description  Reporta filas cuyo tenant no coincide con el de su empresa dueña. Solo lectura.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  consistency.Report
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/consistency/audit [get]
func (h *ConsistencyHandler) Audit(c *fiber.Ctx) error {
	report, err := h.guard.Audit(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "la auditoría falló"})
	}
	return c.JSON(report)
}

// Reconcile godoc
// @Summary      Reparar deriva de tenant
// @Description  Corrige las filas reparables en una sola transacción y reporta las irreparables. Idempotente.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  consistency.ReconcileResult
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/consistency/reconcile [post]
func (h *ConsistencyHandler) Reconcile(c *fiber.Ctx) error {
	result, err := h.guard.Reconcile(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "la reconciliación falló"})
	}
	return c.JSON(result)
}
