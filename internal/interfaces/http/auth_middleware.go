package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/auth"
	"github.com/gestaosst/sst-api/internal/application/authz"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/gestaosst/sst-api/pkg/session"
)

// Locals key del Principal en Fiber.
const LocalPrincipal = "principal"

// SessionDeps dependencias del middleware de sesión.
type SessionDeps struct {
	Cfg      config.SessionConfig
	Users    repository.UserRepository
	Tenants  repository.TenantRepository
	Denylist auth.SessionDenylist
	Log      *logger.Logger
}

// resolvePrincipal valida la cookie de sesión del request y, si todo
// está en orden (token íntegro y vigente, no revocado, usuario vivo,
// tenant activo), devuelve el Principal. Cualquier defecto devuelve
// ok=false sin distinguir cuál fue.
func resolvePrincipal(c *fiber.Ctx, deps SessionDeps) (entity.Principal, bool) {
	raw := c.Cookies(deps.Cfg.CookieName)
	if raw == "" {
		return entity.Principal{}, false
	}

	claims, err := session.Parse(deps.Cfg.Secret, raw)
	if err != nil {
		deps.Log.Debug().Err(err).Msg("token de sesión inválido")
		return entity.Principal{}, false
	}

	revoked, err := deps.Denylist.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		deps.Log.Warn().Err(err).Msg("denylist no disponible")
		return entity.Principal{}, false
	}
	if revoked {
		return entity.Principal{}, false
	}

	// El usuario tiene que seguir existiendo; el token no alcanza.
	user, err := deps.Users.FindByID(claims.UserID)
	if err != nil {
		deps.Log.Error().Err(err).Msg("no se pudo resolver el usuario de la sesión")
		return entity.Principal{}, false
	}
	if user == nil {
		return entity.Principal{}, false
	}

	// El estado del tenant se evalúa en cada request: expirar un
	// tenant corta sus sesiones sin tocar los tokens emitidos.
	if user.Role != entity.RoleSuperAdmin {
		if user.TenantID == nil {
			return entity.Principal{}, false
		}
		tenant, err := deps.Tenants.GetByID(*user.TenantID)
		if err != nil {
			deps.Log.Error().Err(err).Msg("no se pudo resolver el tenant de la sesión")
			return entity.Principal{}, false
		}
		if tenant == nil || !tenant.IsActive() {
			return entity.Principal{}, false
		}
	}

	tenantID := ""
	if user.TenantID != nil {
		tenantID = *user.TenantID
	}
	return entity.Principal{
		UserID:    user.ID,
		TenantID:  tenantID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}, true
}

// SessionMiddleware resuelve la cookie de sesión a un Principal en
// c.Locals. Cualquier defecto del token (ausente, manipulado, vencido,
// revocado, usuario borrado, tenant inactivo) produce el MISMO 401 con
// el mensaje centinela: el cliente no distingue por qué.
func SessionMiddleware(deps SessionDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := resolvePrincipal(c, deps)
		if !ok {
			return unauthenticated(c)
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// OptionalSession resuelve la cookie si la hay pero nunca corta la
// cadena: sin sesión válida el request sigue como anónimo. Lo usa
// /auth/me, que responde null en vez del centinela 401.
func OptionalSession(deps SessionDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, ok := resolvePrincipal(c, deps); ok {
			c.Locals(LocalPrincipal, p)
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el Principal del contexto (después del middleware).
func GetPrincipal(c *fiber.Ctx) (entity.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(entity.Principal)
	return p, ok
}

// RequireOperation corta la cadena si la política deniega la operación
// sobre un recurso del tenant del propio principal. Para recursos cuyo
// tenant sale de la base (p.ej. una empresa ajena), el handler evalúa
// la política a mano con el tenant real.
func RequireOperation(op authz.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return unauthenticated(c)
		}
		if err := authz.Authorize(p, op, p.TenantID, nil).Err(); err != nil {
			return writeDomainError(c, err)
		}
		return c.Next()
	}
}

// RequireSuperAdmin corta la cadena para rutas de administración global.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return unauthenticated(c)
		}
		if p.Role != entity.RoleSuperAdmin {
			return writeDomainError(c, domain.NewAuthzError(domain.DenyRoleNotPermitted))
		}
		return c.Next()
	}
}
