// Package authz concentra todas las decisiones de autorización en una
// única tabla de capacidades por rol. Los handlers piden una decisión,
// nunca comparan roles a mano.
package authz

import (
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
)

// Operation identifica una operación protegida del sistema.
type Operation string

const (
	OpCompaniesRead  Operation = "empresas.read"
	OpCompaniesWrite Operation = "empresas.write"
	OpEmployeesRead  Operation = "colaboradores.read"
	OpEmployeesWrite Operation = "colaboradores.write"
	OpCertsRead      Operation = "asos.read"
	OpCertsEmit      Operation = "asos.emit"
	OpOrdersRead     Operation = "ordens.read"
	OpOrdersEmit     Operation = "ordens.emit"
	OpUsersManage    Operation = "usuarios.manage"
	OpTenantsManage  Operation = "tenants.manage"
)

// capabilities es la lista blanca por rol para los roles no
// administrativos. super_admin, tenant_admin y admin no aparecen: sus
// reglas se resuelven antes de consultar la tabla. Operación ausente =
// denegada.
var capabilities = map[entity.Role]map[Operation]bool{
	entity.RoleGestor: {
		OpCompaniesRead:  true,
		OpCompaniesWrite: true,
		OpEmployeesRead:  true,
		OpEmployeesWrite: true,
		OpCertsRead:      true,
		OpCertsEmit:      true,
		OpOrdersRead:     true,
		OpOrdersEmit:     true,
	},
	entity.RoleTecnico: {
		OpCompaniesRead: true,
		OpEmployeesRead: true,
		OpCertsRead:     true,
		OpCertsEmit:     true,
		OpOrdersRead:    true,
		OpOrdersEmit:    true,
	},
	entity.RoleUser: {
		OpCompaniesRead: true,
		OpEmployeesRead: true,
		OpCertsRead:     true,
		OpOrdersRead:    true,
	},
}

// companyScoped marca las operaciones que respetan el alcance por
// empresa de un usuario acotado (Principal.CompanyID != nil).
var companyScoped = map[Operation]bool{
	OpEmployeesRead:  true,
	OpEmployeesWrite: true,
	OpCertsRead:      true,
	OpCertsEmit:      true,
	OpOrdersRead:     true,
	OpOrdersEmit:     true,
}

// Decision es el resultado de evaluar la política. Cuando Allowed es
// false, Reason identifica la regla que denegó.
type Decision struct {
	Allowed bool
	Reason  domain.DenyReason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason domain.DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err traduce la decisión a error de dominio; nil si fue permitida.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.NewAuthzError(d.Reason)
}

// Authorize evalúa si el principal puede ejecutar la operación sobre un
// recurso del tenant/empresa indicados. Las reglas se aplican en orden
// fijo; la primera que decide, decide:
//
//  1. super_admin opera sobre cualquier tenant.
//  2. Un recurso de otro tenant se deniega sin mirar el rol.
//  3. tenant_admin y admin tienen acceso total dentro de su tenant.
//  4. El resto de los roles solo lo que su lista blanca permite.
//  5. Un usuario acotado a una empresa no cruza a otra empresa.
//
// resourceTenantID es obligatorio para recursos de tenant; para
// operaciones a nivel tenant el caller pasa el tenant del principal.
// resourceCompanyID nil significa recurso sin alcance de empresa.
func Authorize(p entity.Principal, op Operation, resourceTenantID string, resourceCompanyID *string) Decision {
	if p.Role == entity.RoleSuperAdmin {
		return allow()
	}

	if resourceTenantID == "" || resourceTenantID != p.TenantID {
		return deny(domain.DenyCrossTenantAccess)
	}

	if p.Role.IsAdmin() {
		return allow()
	}

	if !capabilities[p.Role][op] {
		return deny(domain.DenyRoleNotPermitted)
	}

	if companyScoped[op] && p.CompanyID != nil && resourceCompanyID != nil && *resourceCompanyID != *p.CompanyID {
		return deny(domain.DenyCrossCompanyAccess)
	}

	return allow()
}
