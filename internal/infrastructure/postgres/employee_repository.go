package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación del puerto EmployeeRepository sobre PostgreSQL.
type EmployeeRepo struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

// Create inserta el colaborador derivando tenant_id de la empresa dueña
// en la misma sentencia. Si la empresa no existe, el SELECT no produce
// filas y el INSERT no inserta nada.
func (r *EmployeeRepo) Create(employee *entity.Employee) error {
	query := `
		INSERT INTO employees (id, tenant_id, company_id, name, cpf, status, created_at, updated_at)
		SELECT $1, c.tenant_id, c.id, $3, $4, $5, $6, $7
		FROM companies c WHERE c.id = $2
		RETURNING tenant_id`
	err := r.pool.QueryRow(context.Background(), query,
		employee.ID, employee.CompanyID, employee.Name, employee.CPF, employee.Status,
		employee.CreatedAt, employee.UpdatedAt,
	).Scan(&employee.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	query := `
		SELECT id, tenant_id, company_id, name, cpf, status, created_at, updated_at
		FROM employees WHERE id = $1`
	e, err := scanEmployee(r.pool.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by id: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Employee, error) {
	query := `
		SELECT id, tenant_id, company_id, name, cpf, status, created_at, updated_at
		FROM employees WHERE company_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// scanEmployee tolera tenant_id NULL: filas con deriva pendiente de
// reparación siguen siendo legibles.
func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	var tenantID *string
	err := row.Scan(&e.ID, &tenantID, &e.CompanyID, &e.Name, &e.CPF, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tenantID != nil {
		e.TenantID = *tenantID
	}
	return &e, nil
}
