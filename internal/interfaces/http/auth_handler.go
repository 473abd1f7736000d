package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/auth"
	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/pkg/config"
)

// AuthHandler maneja login, logout y perfil.
type AuthHandler struct {
	uc         *auth.UseCase
	cfg        config.SessionConfig
	production bool
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase, cfg config.SessionConfig, production bool) *AuthHandler {
	return &AuthHandler{uc: uc, cfg: cfg, production: production}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Acepta email, CPF o CNPJ (con o sin puntuación) y deja la sesión en una cookie HttpOnly.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "identifier, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Identifier == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier y password son requeridos"})
	}

	out, token, err := h.uc.Login(c.Context(), in, c.IP())
	if err != nil {
		return writeDomainError(c, err)
	}

	h.setSessionCookie(c, token, h.cfg.TTL())
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Revoca la sesión actual y limpia la cookie. Idempotente.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if raw := c.Cookies(h.cfg.CookieName); raw != "" {
		if err := h.uc.Logout(c.Context(), raw); err != nil {
			return writeDomainError(c, err)
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"success": true})
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Description  Ruta pública: sin sesión válida responde null, nunca 401. El cliente la consulta para decidir si muestra el login.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return c.JSON(nil)
	}
	user, err := h.uc.Me(p.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "currentPassword, newPassword"
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthenticated(c)
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ChangePassword(p.UserID, in); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// setSessionCookie deja el token en una cookie que el JS del cliente no
// puede leer. Secure solo en producción para no romper el desarrollo
// local sin TLS.
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
