package auth

import (
	"context"
	"time"
)

// LoginLimiter limita los intentos de login fallidos por clave
// (identificador + IP). Las implementaciones viven en
// infrastructure/ratelimit.
type LoginLimiter interface {
	// Check informa si la clave aún tiene intentos disponibles y, si
	// no, cuánto falta para que se libere la ventana.
	Check(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
	// RecordFailure consume un intento fallido.
	RecordFailure(ctx context.Context, key string) error
	// Clear descarta los intentos acumulados tras un login exitoso.
	Clear(ctx context.Context, key string) error
}

// SessionDenylist registra los jti de sesiones revocadas por logout.
// Una entrada solo necesita vivir hasta que el token expire.
type SessionDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
