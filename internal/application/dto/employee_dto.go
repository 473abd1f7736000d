package dto

// CreateEmployeeRequest da de alta un colaborador de una empresa. El
// tenant del registro se deriva de la empresa, nunca del request.
type CreateEmployeeRequest struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
}

// EmployeeResponse es la proyección pública de un colaborador.
type EmployeeResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	Status    string `json:"status"`
}
