package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gestaosst/sst-api/internal/application/auth"
	"github.com/gestaosst/sst-api/internal/application/consistency"
	"github.com/gestaosst/sst-api/internal/application/usecase"
	"github.com/gestaosst/sst-api/internal/infrastructure/postgres"
	"github.com/gestaosst/sst-api/internal/infrastructure/ratelimit"
	"github.com/gestaosst/sst-api/internal/infrastructure/redisstore"
	httpRouter "github.com/gestaosst/sst-api/internal/interfaces/http"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)

	// Sin REDIS_ADDR se usan las variantes en memoria: suficiente para
	// un solo proceso, sin estado compartido entre réplicas.
	var (
		limiter  auth.LoginLimiter
		denylist auth.SessionDenylist
	)
	if cfg.Redis.Addr != "" {
		client := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		limiter = ratelimit.NewRedisLimiter(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
		denylist = redisstore.NewDenylist(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limit y denylist sobre Redis")
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
		denylist = redisstore.NewMemoryDenylist()
		log.Warn().Msg("REDIS_ADDR vacío: rate limit y denylist en memoria")
	}

	authUC := auth.NewUseCase(userRepo, tenantRepo, companyRepo, limiter, denylist, cfg.Session, cfg.Auth, log)
	tenantUC := usecase.NewTenantUseCase(tenantRepo, userRepo, cfg.Auth, log)
	companyUC := usecase.NewCompanyUseCase(companyRepo, tenantRepo, log)
	employeeUC := usecase.NewEmployeeUseCase(employeeRepo, companyRepo, log)
	guard := consistency.NewGuard(postgres.NewConsistencyRepository(pool), postgres.NewTxRunner(pool), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SST API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		TenantUC:   tenantUC,
		CompanyUC:  companyUC,
		EmployeeUC: employeeUC,
		Guard:      guard,
		Users:      userRepo,
		Tenants:    tenantRepo,
		Denylist:   denylist,
		Session:    cfg.Session,
		Production: cfg.App.IsProduction(),
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
