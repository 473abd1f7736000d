package repository

import "github.com/gestaosst/sst-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. TenantID es inmutable: Update
// no lo toca jamás.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByCNPJ(tenantID, cnpj string) (*entity.Company, error)
	Update(company *entity.Company) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Company, error)
}
