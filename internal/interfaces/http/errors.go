package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
)

// unauthenticated devuelve el 401 con el mensaje centinela. El cliente
// compara el message textualmente para decidir redirigir al login, así
// que este cuerpo no se construye en ningún otro lado.
func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:    domain.CodeUnauthenticated,
		Message: domain.SentinelUnauthenticated,
	})
}

// writeDomainError traduce errores de dominio a respuestas HTTP. Los
// handlers no eligen status codes a mano.
func writeDomainError(c *fiber.Ctx, err error) error {
	if authzErr, ok := domain.AsAuthzError(err); ok {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    string(authzErr.Reason),
			Message: authzErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code:    domain.CodeInvalidCredentials,
			Message: "credenciales inválidas",
		})
	case errors.Is(err, domain.ErrUnauthenticated):
		return unauthenticated(c)
	case errors.Is(err, domain.ErrTenantExpired):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    domain.CodeTenantExpired,
			Message: "la suscripción del tenant no está activa",
		})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Code:    domain.CodeTooManyAttempts,
			Message: "demasiados intentos, intente más tarde",
		})
	case errors.Is(err, domain.ErrIdentifierTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    domain.CodeIdentifierTaken,
			Message: "el identificador ya está registrado",
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CONFLICT",
			Message: "el recurso ya existe",
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "recurso no encontrado",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "INTERNAL",
			Message: "error interno",
		})
	}
}
