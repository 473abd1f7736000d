// tenantcheck audita y repara la deriva de tenant_id desde la línea de
// comandos, sin levantar la API:
//
//	tenantcheck audit       reporta la deriva sin tocar nada
//	tenantcheck reconcile   repara lo reparable y reporta lo irreparable
//
// El reporte sale por stdout en JSON; los logs van a stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gestaosst/sst-api/internal/application/consistency"
	"github.com/gestaosst/sst-api/internal/infrastructure/postgres"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "audit" && os.Args[1] != "reconcile") {
		fmt.Fprintln(os.Stderr, "uso: tenantcheck <audit|reconcile>")
		os.Exit(2)
	}
	mode := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	guard := consistency.NewGuard(
		postgres.NewConsistencyRepository(pool),
		postgres.NewTxRunner(pool),
		log,
	)

	var out any
	switch mode {
	case "audit":
		report, err := guard.Audit(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("auditoría")
		}
		out = report
	case "reconcile":
		result, err := guard.Reconcile(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("reconciliación")
		}
		out = result
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("serializar reporte")
	}
}
