package redisstore

import (
	"context"
	"sync"
	"time"

	"github.com/gestaosst/sst-api/internal/application/auth"
)

var _ auth.SessionDenylist = (*MemoryDenylist)(nil)

// MemoryDenylist es la variante en memoria para despliegues de un solo
// proceso (o tests). Sin Redis, un restart olvida las revocaciones:
// aceptable porque los tokens igualmente expiran solos.
type MemoryDenylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> vencimiento
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.RLock()
	expiry, ok := d.revoked[jti]
	d.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		d.mu.Lock()
		delete(d.revoked, jti)
		d.mu.Unlock()
		return false, nil
	}
	return true, nil
}
