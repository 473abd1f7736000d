package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Planes disponibles (deben coincidir con el CHECK de la tabla tenants).
const (
	PlanBasico       = "basico"
	PlanProfissional = "profissional"
)

// Estados de un tenant. Nunca se borra en duro: el ciclo de vida es
// active -> expired/suspended y de vuelta (billing/admin).
const (
	TenantActive    = "active"
	TenantExpired   = "expired"
	TenantSuspended = "suspended"
)

// Estados de pago de la suscripción.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentOverdue = "overdue"
)

// Tenant representa una organización cliente del sistema (workspace multi-tenant).
// Cada cliente que compra el sistema recibe exactamente un tenant.
type Tenant struct {
	ID                string
	Name              string
	Plan              string // basico, profissional
	Status            string // active, expired, suspended
	PaymentStatus     string // paid, pending, overdue
	PlanPrice         decimal.Decimal
	SubscriptionStart time.Time
	SubscriptionEnd   *time.Time // nil = sin vencimiento fijado
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive indica si el tenant puede operar (sesiones y escrituras).
func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}
