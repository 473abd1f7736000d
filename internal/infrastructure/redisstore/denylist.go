// Package redisstore implementa la denylist de sesiones revocadas.
// Un logout registra el jti del token; el middleware lo consulta en
// cada request. Las entradas expiran junto con el token, así la lista
// no crece indefinidamente.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gestaosst/sst-api/internal/application/auth"
)

var _ auth.SessionDenylist = (*Denylist)(nil)

// Denylist guarda los jti revocados en Redis, compartidos entre
// réplicas.
type Denylist struct {
	client *redis.Client
}

func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

func (d *Denylist) key(jti string) string {
	return "sst:revoked:" + jti
}

func (d *Denylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return n > 0, nil
}

// NewClient construye el cliente Redis compartido por denylist y rate
// limiter.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
