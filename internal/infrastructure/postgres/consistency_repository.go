package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestaosst/sst-api/internal/application/consistency"
)

// DBTX es el subconjunto de pgx que necesita el repositorio de
// consistencia. Lo satisfacen *pgxpool.Pool, pgx.Tx y pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ consistency.Repository = (*ConsistencyRepo)(nil)

// tableSpec describe una tabla auditable: su nombre y la columna que
// referencia a la empresa dueña.
type tableSpec struct {
	name      string
	companyFK string
}

// auditedTables es el registro de tablas con tenant_id derivado de una
// empresa. Agregar una tabla acá la incorpora a audit y reconcile sin
// más código.
var auditedTables = []tableSpec{
	{name: "employees", companyFK: "company_id"},
	{name: "certificates", companyFK: "company_id"},
	{name: "service_orders", companyFK: "company_id"},
}

// ConsistencyRepo implementa las consultas y reparaciones del guard.
// La tabla companies es la fuente de verdad del tenant; los nombres de
// tabla salen del registro fijo de arriba, nunca de input externo.
type ConsistencyRepo struct {
	db     DBTX
	tables []tableSpec
}

func NewConsistencyRepository(db DBTX) *ConsistencyRepo {
	return &ConsistencyRepo{db: db, tables: auditedTables}
}

func (r *ConsistencyRepo) TableNames() []string {
	names := make([]string, len(r.tables))
	for i, t := range r.tables {
		names[i] = t.name
	}
	return names
}

func (r *ConsistencyRepo) spec(table string) (tableSpec, error) {
	for _, t := range r.tables {
		if t.name == table {
			return t, nil
		}
	}
	return tableSpec{}, fmt.Errorf("tabla no registrada: %s", table)
}

// AuditTable clasifica las filas con deriva de tenant de una tabla.
func (r *ConsistencyRepo) AuditTable(ctx context.Context, table string) (*consistency.TableAudit, error) {
	spec, err := r.spec(table)
	if err != nil {
		return nil, err
	}
	audit := &consistency.TableAudit{Table: table}

	// tenant_id NULL con empresa resoluble: reparable.
	missingQ := fmt.Sprintf(`
		SELECT t.id, t.%[2]s, t.tenant_id, c.tenant_id
		FROM %[1]s t
		JOIN companies c ON c.id = t.%[2]s
		WHERE t.tenant_id IS NULL AND c.tenant_id IS NOT NULL
		ORDER BY t.id`, spec.name, spec.companyFK)
	if audit.Missing, err = r.collect(ctx, table, missingQ); err != nil {
		return nil, fmt.Errorf("audit missing %s: %w", table, err)
	}

	// tenant_id distinto al de la empresa dueña: reparable, gana la empresa.
	mismatchedQ := fmt.Sprintf(`
		SELECT t.id, t.%[2]s, t.tenant_id, c.tenant_id
		FROM %[1]s t
		JOIN companies c ON c.id = t.%[2]s
		WHERE t.tenant_id IS NOT NULL AND c.tenant_id IS NOT NULL AND t.tenant_id <> c.tenant_id
		ORDER BY t.id`, spec.name, spec.companyFK)
	if audit.Mismatched, err = r.collect(ctx, table, mismatchedQ); err != nil {
		return nil, fmt.Errorf("audit mismatched %s: %w", table, err)
	}

	// Sin tenant y sin empresa resoluble: solo se reporta.
	unrepairableQ := fmt.Sprintf(`
		SELECT t.id, t.%[2]s, t.tenant_id, c.tenant_id
		FROM %[1]s t
		LEFT JOIN companies c ON c.id = t.%[2]s
		WHERE t.tenant_id IS NULL AND (t.%[2]s IS NULL OR c.id IS NULL OR c.tenant_id IS NULL)
		ORDER BY t.id`, spec.name, spec.companyFK)
	if audit.Unrepairable, err = r.collect(ctx, table, unrepairableQ); err != nil {
		return nil, fmt.Errorf("audit unrepairable %s: %w", table, err)
	}

	return audit, nil
}

// RepairTable corrige en una sola sentencia las filas reparables. No
// toca filas sin empresa resoluble.
func (r *ConsistencyRepo) RepairTable(ctx context.Context, table string) (int64, error) {
	spec, err := r.spec(table)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		UPDATE %[1]s t
		SET tenant_id = c.tenant_id, updated_at = now()
		FROM companies c
		WHERE c.id = t.%[2]s
		  AND c.tenant_id IS NOT NULL
		  AND (t.tenant_id IS NULL OR t.tenant_id <> c.tenant_id)`, spec.name, spec.companyFK)
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("repair %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (r *ConsistencyRepo) collect(ctx context.Context, table, query string) ([]consistency.FlaggedRecord, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []consistency.FlaggedRecord
	for rows.Next() {
		rec := consistency.FlaggedRecord{Table: table}
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.RecordTenantID, &rec.CompanyTenantID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
