package entity

import "time"

// Estados de una empresa.
const (
	CompanyActive   = "active"
	CompanyInactive = "inactive"
)

// Company representa una empresa cliente dentro de un tenant (enfoque SST Brasil).
// TenantID es inmutable después de la creación y debe referenciar un tenant
// existente y no suspendido en operaciones de escritura.
type Company struct {
	ID        string
	TenantID  string
	Name      string // razón social
	CNPJ      string // único por tenant, no global
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
