package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Autenticación y autorización fallan con variantes estables y verificables
// con errors.Is; el transporte HTTP las traduce a códigos de wire en dto.ErrorResponse.
var (
	// ErrInvalidCredentials identificador desconocido o password incorrecto.
	// Nunca se distingue cuál de los dos falló (anti-enumeración).
	ErrInvalidCredentials = errors.New("credenciales inválidas")

	// ErrUnauthenticated sesión ausente, malformada, manipulada, expirada o revocada.
	ErrUnauthenticated = errors.New("no autenticado")

	// ErrTenantExpired el usuario es válido pero su tenant no está activo.
	ErrTenantExpired = errors.New("tenant suspendido o expirado")

	// ErrIdentifierTaken el identificador normalizado ya existe (Conflict).
	ErrIdentifierTaken = errors.New("identificador ya registrado")

	// ErrTooManyAttempts rate limit de login excedido.
	ErrTooManyAttempts = errors.New("demasiados intentos de login")

	// ErrUnrepairable registro tenant-owned sin empresa resoluble; se reporta, nunca se adivina.
	ErrUnrepairable = errors.New("registro sin tenant resoluble")

	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// SentinelUnauthenticated es el mensaje EXACTO que acompaña a toda respuesta 401
// por sesión inválida. El cliente lo compara byte a byte para redirigir a /login,
// así que forma parte del protocolo de wire: no cambiar sin coordinar con el cliente.
const SentinelUnauthenticated = "Não autenticado. Faça login para continuar."

// Códigos de wire estables (campo "code" de dto.ErrorResponse).
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeTenantExpired      = "TENANT_EXPIRED"
	CodeIdentifierTaken    = "IDENTIFIER_TAKEN"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
)

// DenyReason razón de una denegación de autorización. Toda denegación lleva
// exactamente una; la política nunca degrada a resultados parciales.
type DenyReason string

const (
	DenyCrossTenantAccess  DenyReason = "CROSS_TENANT_ACCESS"
	DenyCrossCompanyAccess DenyReason = "CROSS_COMPANY_ACCESS"
	DenyRoleNotPermitted   DenyReason = "ROLE_NOT_PERMITTED"
)

// AuthzError autorización denegada: autenticado pero sin permiso.
// Distinguible del sentinel de no-autenticado tanto por tipo como por código.
type AuthzError struct {
	Reason DenyReason
}

func (e *AuthzError) Error() string {
	return "acceso denegado: " + string(e.Reason)
}

// NewAuthzError construye el error de autorización para una razón dada.
func NewAuthzError(reason DenyReason) *AuthzError {
	return &AuthzError{Reason: reason}
}

// AsAuthzError extrae un *AuthzError de una cadena de errores, si lo hay.
func AsAuthzError(err error) (*AuthzError, bool) {
	var ae *AuthzError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
