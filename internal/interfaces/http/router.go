package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestaosst/sst-api/internal/application/auth"
	"github.com/gestaosst/sst-api/internal/application/authz"
	"github.com/gestaosst/sst-api/internal/application/consistency"
	"github.com/gestaosst/sst-api/internal/application/usecase"
	"github.com/gestaosst/sst-api/internal/domain/repository"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	TenantUC   *usecase.TenantUseCase
	CompanyUC  *usecase.CompanyUseCase
	EmployeeUC *usecase.EmployeeUseCase
	Guard      *consistency.Guard
	Users      repository.UserRepository
	Tenants    repository.TenantRepository
	Denylist   auth.SessionDenylist
	Session    config.SessionConfig
	Production bool
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	sessionDeps := SessionDeps{
		Cfg:      deps.Session,
		Users:    deps.Users,
		Tenants:  deps.Tenants,
		Denylist: deps.Denylist,
		Log:      deps.Log,
	}

	// Auth (login, logout y me son públicos; me responde null sin sesión)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Session, deps.Production)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", OptionalSession(sessionDeps), authHandler.Me)

	// Rutas protegidas (cookie de sesión)
	protected := api.Group("/", SessionMiddleware(sessionDeps))

	protected.Put("/auth/password", authHandler.ChangePassword)

	// Usuarios del tenant (solo administradores)
	userHandler := NewUserHandler(deps.AuthUC)
	users := protected.Group("/users", RequireOperation(authz.OpUsersManage))
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)

	// Empresas (la política se evalúa por handler, con el tenant real del recurso)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := protected.Group("/companies")
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.Get)
	companies.Put("/:id", companyHandler.Update)

	// Colaboradores
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, deps.CompanyUC)
	companies.Get("/:id/employees", employeeHandler.ListByCompany)
	employees := protected.Group("/employees")
	employees.Post("/", employeeHandler.Create)
	employees.Get("/:id", employeeHandler.Get)

	// Administración global (solo super_admin)
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants := protected.Group("/tenants", RequireSuperAdmin())
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.Get)
	tenants.Put("/:id/status", tenantHandler.UpdateStatus)

	consistencyHandler := NewConsistencyHandler(deps.Guard)
	admin := protected.Group("/admin", RequireSuperAdmin())
	admin.Get("/consistency/audit", consistencyHandler.Audit)
	admin.Post("/consistency/reconcile", consistencyHandler.Reconcile)
}
