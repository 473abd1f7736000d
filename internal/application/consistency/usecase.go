// Package consistency implementa el guardián de consistencia de
// tenant: detecta y repara filas cuyo tenant_id divergió del de su
// empresa dueña. La empresa es siempre la fuente de verdad; un registro
// sin empresa resoluble se reporta y no se toca.
package consistency

import (
	"context"

	"github.com/gestaosst/sst-api/pkg/logger"
)

// Report es el resultado de una auditoría completa (solo lectura).
type Report struct {
	Tables []TableAudit `json:"tables"`
}

// Clean indica que ninguna tabla registrada tiene deriva.
func (r *Report) Clean() bool {
	for i := range r.Tables {
		if !r.Tables[i].Clean() {
			return false
		}
	}
	return true
}

// Totals suma los hallazgos de todas las tablas.
func (r *Report) Totals() (missing, mismatched, unrepairable int) {
	for i := range r.Tables {
		missing += len(r.Tables[i].Missing)
		mismatched += len(r.Tables[i].Mismatched)
		unrepairable += len(r.Tables[i].Unrepairable)
	}
	return
}

// ReconcileResult es el resultado de una reparación.
type ReconcileResult struct {
	RepairedByTable map[string]int64 `json:"repairedByTable"`
	TotalRepaired   int64            `json:"totalRepaired"`
	Unrepairable    []FlaggedRecord  `json:"unrepairable"`
}

// Guard orquesta auditoría y reparación sobre las tablas registradas.
type Guard struct {
	repo Repository
	tx   TxRunner
	log  *logger.Logger
}

func NewGuard(repo Repository, tx TxRunner, log *logger.Logger) *Guard {
	return &Guard{repo: repo, tx: tx, log: log}
}

// Audit recorre las tablas registradas y reporta la deriva encontrada.
// No modifica nada; correrla dos veces seguidas da el mismo resultado.
func (g *Guard) Audit(ctx context.Context) (*Report, error) {
	report := &Report{Tables: make([]TableAudit, 0, len(g.repo.TableNames()))}
	for _, table := range g.repo.TableNames() {
		audit, err := g.repo.AuditTable(ctx, table)
		if err != nil {
			return nil, err
		}
		report.Tables = append(report.Tables, *audit)
	}

	missing, mismatched, unrepairable := report.Totals()
	g.log.Info().
		Int("missing", missing).
		Int("mismatched", mismatched).
		Int("unrepairable", unrepairable).
		Msg("auditoría de tenant completada")

	return report, nil
}

// Reconcile repara todas las tablas registradas dentro de una única
// transacción y devuelve lo corregido más lo irreparable. Es
// idempotente: una segunda corrida no encuentra nada que reparar.
func (g *Guard) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{RepairedByTable: map[string]int64{}}

	err := g.tx.RunInTx(ctx, func(repo Repository) error {
		for _, table := range repo.TableNames() {
			repaired, err := repo.RepairTable(ctx, table)
			if err != nil {
				return err
			}
			result.RepairedByTable[table] = repaired
			result.TotalRepaired += repaired

			// Lo que sigue marcado después de reparar no tiene empresa
			// resoluble: queda para intervención manual.
			audit, err := repo.AuditTable(ctx, table)
			if err != nil {
				return err
			}
			result.Unrepairable = append(result.Unrepairable, audit.Unrepairable...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range result.Unrepairable {
		g.log.Warn().
			Str("table", rec.Table).
			Str("id", rec.ID).
			Msg("registro sin tenant resoluble, requiere intervención manual")
	}
	g.log.Info().
		Int64("repaired", result.TotalRepaired).
		Int("unrepairable", len(result.Unrepairable)).
		Msg("reconciliación de tenant completada")

	return result, nil
}
