package repository

import "github.com/gestaosst/sst-api/internal/domain/entity"

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// Delete existe solo para revertir un aprovisionamiento a medias (tenant
// recién insertado cuyo admin falló): en su ciclo de vida normal un
// tenant nunca se borra en duro, solo transiciona de estado.
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	Update(tenant *entity.Tenant) error
	UpdateStatus(id, status string) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.Tenant, error)
}
