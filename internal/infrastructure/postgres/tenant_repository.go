package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, name, plan, status, payment_status, plan_price, subscription_start, subscription_end, created_at, updated_at`

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	pool *pgxpool.Pool
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, plan, status, payment_status, plan_price, subscription_start, subscription_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.Plan, tenant.Status, tenant.PaymentStatus,
		tenant.PlanPrice, tenant.SubscriptionStart, tenant.SubscriptionEnd,
		tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	var t entity.Tenant
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Name, &t.Plan, &t.Status, &t.PaymentStatus, &t.PlanPrice,
		&t.SubscriptionStart, &t.SubscriptionEnd, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by id: %w", err)
	}
	return &t, nil
}

func (r *TenantRepo) Update(tenant *entity.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, plan = $3, status = $4, payment_status = $5, plan_price = $6,
		    subscription_start = $7, subscription_end = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.Plan, tenant.Status, tenant.PaymentStatus,
		tenant.PlanPrice, tenant.SubscriptionStart, tenant.SubscriptionEnd, tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

func (r *TenantRepo) UpdateStatus(id, status string) error {
	query := `UPDATE tenants SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	return nil
}

func (r *TenantRepo) Delete(id string) error {
	query := `DELETE FROM tenants WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

func (r *TenantRepo) List(limit, offset int) ([]*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Plan, &t.Status, &t.PaymentStatus, &t.PlanPrice,
			&t.SubscriptionStart, &t.SubscriptionEnd, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
