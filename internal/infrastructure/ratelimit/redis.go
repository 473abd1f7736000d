package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gestaosst/sst-api/internal/application/auth"
)

var _ auth.LoginLimiter = (*RedisLimiter)(nil)

// recordScript incrementa el contador de fallos y fija el vencimiento
// de la ventana solo en el primer fallo, de forma atómica.
var recordScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter cuenta fallos por clave en Redis: todas las réplicas de
// la API ven el mismo contador.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) key(key string) string {
	return "sst:loginfail:" + key
}

func (l *RedisLimiter) Check(ctx context.Context, key string) (bool, time.Duration, error) {
	count, err := l.client.Get(ctx, l.key(key)).Int()
	if err == redis.Nil {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check: %w", err)
	}
	if count < l.max {
		return true, 0, nil
	}
	ttl, err := l.client.PTTL(ctx, l.key(key)).Result()
	if err != nil {
		return false, l.window, nil
	}
	return false, ttl, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	err := recordScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("rate limit record: %w", err)
	}
	return nil
}

func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("rate limit clear: %w", err)
	}
	return nil
}
