package dto

// CreateCompanyRequest registra una empresa cliente del tenant.
// TenantID solo lo puede fijar el super_admin, que no tiene tenant
// propio; para el resto de los roles se ignora.
type CreateCompanyRequest struct {
	Name     string `json:"name"`
	CNPJ     string `json:"cnpj"`
	TenantID string `json:"tenantId,omitempty"`
}

// UpdateCompanyRequest actualiza campos mutables. El tenant de una
// empresa nunca cambia por esta vía.
type UpdateCompanyRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

// CompanyResponse es la proyección pública de una empresa.
type CompanyResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
	CNPJ     string `json:"cnpj"`
	Status   string `json:"status"`
}
