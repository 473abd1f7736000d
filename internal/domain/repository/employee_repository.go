package repository

import "github.com/gestaosst/sst-api/internal/domain/entity"

// EmployeeRepository define el puerto de persistencia para Employee (DIP).
// Create deriva el tenant de la empresa dueña EN LA MISMA sentencia INSERT:
// el tenant del registro y el de la empresa no pueden divergir en la escritura
// (esa deriva es exactamente lo que el Consistency Guard existe para reparar).
// Devuelve domain.ErrNotFound si la empresa no existe.
type EmployeeRepository interface {
	Create(employee *entity.Employee) error
	GetByID(id string) (*entity.Employee, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Employee, error)
}
