package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, tenant_id, email, cpf, cnpj, password_hash, name, role, company_id, last_signed_in, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, tenant_id, email, cpf, cnpj, password_hash, name, role, company_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.TenantID, user.Email, user.CPF, user.CNPJ, user.PasswordHash,
		user.Name, user.Role, user.CompanyID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentifierTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) FindByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id), "find user by id")
}

// FindByIdentifier busca por email, CPF o CNPJ. El identificador llega
// ya normalizado; la columna que corresponda se decide por igualdad
// directa, las tres guardan la forma canónica.
func (r *UserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 OR cpf = $1 OR cnpj = $1
		LIMIT 1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, identifier), "find user by identifier")
}

// Update actualiza los campos mutables de un usuario. tenant_id no se
// toca: un usuario no se mueve de tenant.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users
		SET email = NULLIF($2, ''), cpf = NULLIF($3, ''), cnpj = NULLIF($4, ''),
		    name = $5, role = $6, company_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Email, user.CPF, user.CNPJ, user.Name, user.Role, user.CompanyID, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentifierTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePasswordHash reemplaza solo el hash de contraseña.
func (r *UserRepo) UpdatePasswordHash(id, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, hash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// TouchLastSignedIn registra el momento del último login exitoso.
func (r *UserRepo) TouchLastSignedIn(id string) error {
	query := `UPDATE users SET last_signed_in = now() WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("touch last signed in: %w", err)
	}
	return nil
}

// ListByTenant lista usuarios de un tenant con paginación.
func (r *UserRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE tenant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// scanUser lee una fila de users. email/cpf/cnpj son NULLables en la
// tabla pero strings vacíos en la entidad.
func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var email, cpf, cnpj *string
	var lastSignedIn *time.Time
	err := row.Scan(
		&u.ID, &u.TenantID, &email, &cpf, &cnpj, &u.PasswordHash,
		&u.Name, &u.Role, &u.CompanyID, &lastSignedIn, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	if cpf != nil {
		u.CPF = *cpf
	}
	if cnpj != nil {
		u.CNPJ = *cnpj
	}
	if lastSignedIn != nil {
		u.LastSignedIn = *lastSignedIn
	}
	return &u, nil
}
