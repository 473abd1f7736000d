package entity

import "time"

// Role es la enumeración cerrada de roles del sistema. Las decisiones de
// autorización consultan una única tabla de capacidades (authz), nunca
// comparaciones de strings dispersas en handlers.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleAdmin       Role = "admin"
	RoleGestor      Role = "gestor"
	RoleTecnico     Role = "tecnico"
	RoleUser        Role = "user"
)

// Valid indica si el valor corresponde a un rol conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleAdmin, RoleGestor, RoleTecnico, RoleUser:
		return true
	}
	return false
}

// IsAdmin agrupa los roles con acceso total dentro de su tenant.
func (r Role) IsAdmin() bool {
	return r == RoleTenantAdmin || r == RoleAdmin
}

// User representa un principal del sistema.
// Invariantes: todo usuario que no sea super_admin pertenece a exactamente un
// tenant; CompanyID, si está definido, debe pertenecer a ese mismo tenant.
// Al menos uno de Email/CPF/CNPJ está definido y es único (ya normalizado).
type User struct {
	ID           string
	TenantID     *string // nil solo para super_admin
	Email        string
	CPF          string  // 11 dígitos, sin formato
	CNPJ         string  // 14 dígitos, sin formato
	PasswordHash *string // nil = cuenta solo-OAuth, login por password imposible
	Name         string
	Role         Role
	CompanyID    *string // alcance opcional a una empresa del mismo tenant
	LastSignedIn time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal es la identidad autenticada adjunta al contexto de cada request
// tras resolver la sesión. Es un valor derivado, nunca se persiste.
type Principal struct {
	UserID    string
	TenantID  string // vacío solo para super_admin
	Role      Role
	CompanyID *string
}
