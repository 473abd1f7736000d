package repository

import "github.com/gestaosst/sst-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// FindByIdentifier espera el identificador YA normalizado (auth.NormalizeIdentifier)
// y devuelve (nil, nil) cuando no hay match: "no encontrado" no es un error aquí,
// la frontera de autenticación lo colapsa con "password incorrecto".
type UserRepository interface {
	Create(user *entity.User) error
	FindByID(id string) (*entity.User, error)
	FindByIdentifier(identifier string) (*entity.User, error)
	Update(user *entity.User) error
	UpdatePasswordHash(id, hash string) error
	TouchLastSignedIn(id string) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error)
}
