package consistency

import "context"

// FlaggedRecord es una fila cuyo tenant_id no coincide con el de su
// empresa dueña (o directamente falta).
type FlaggedRecord struct {
	Table           string  `json:"table"`
	ID              string  `json:"id"`
	CompanyID       *string `json:"companyId,omitempty"`
	RecordTenantID  *string `json:"recordTenantId,omitempty"`
	CompanyTenantID *string `json:"companyTenantId,omitempty"`
}

// TableAudit es el resultado de auditar una tabla registrada.
//
//   - Missing: tenant_id NULL pero la empresa dueña sí tiene tenant;
//     reparable derivando de la empresa.
//   - Mismatched: tenant_id distinto al de la empresa dueña; reparable,
//     la empresa es la fuente de verdad.
//   - Unrepairable: sin empresa dueña resoluble (company_id NULL, la
//     empresa no existe, o la empresa misma no tiene tenant). Solo se
//     reporta, jamás se adivina un tenant.
type TableAudit struct {
	Table        string          `json:"table"`
	Missing      []FlaggedRecord `json:"missing"`
	Mismatched   []FlaggedRecord `json:"mismatched"`
	Unrepairable []FlaggedRecord `json:"unrepairable"`
}

// Clean indica que la tabla no tiene deriva de tenant.
func (a *TableAudit) Clean() bool {
	return len(a.Missing) == 0 && len(a.Mismatched) == 0 && len(a.Unrepairable) == 0
}

// Repository es el puerto de consultas/reparaciones del guard. Las
// tablas auditables se registran en la implementación; el guard las
// recorre sin conocer sus esquemas.
type Repository interface {
	// TableNames devuelve las tablas registradas, en orden estable.
	TableNames() []string
	// AuditTable clasifica las filas con deriva de una tabla. Solo lee.
	AuditTable(ctx context.Context, table string) (*TableAudit, error)
	// RepairTable corrige en una sola sentencia (UPDATE ... FROM) las
	// filas reparables de la tabla y devuelve cuántas tocó. No toca
	// las irreparables.
	RepairTable(ctx context.Context, table string) (int64, error)
}

// TxRunner ejecuta fn dentro de una transacción; el Repository recibido
// opera sobre esa transacción. Un reconcile corrige todas las tablas o
// ninguna.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(Repository) error) error
}
