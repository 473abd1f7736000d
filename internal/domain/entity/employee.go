package entity

import "time"

// Estados de un colaborador.
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// Employee (colaborador) es el registro tenant-owned representativo.
// Invariante vigilada por el Consistency Guard:
//
//	employee.TenantID == company(employee.CompanyID).TenantID
//
// En escrituras el tenant se deriva de la empresa dueña en la misma sentencia,
// nunca se parchea después.
type Employee struct {
	ID        string
	TenantID  string
	CompanyID string
	Name      string
	CPF       string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
