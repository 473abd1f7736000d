// Package ratelimit implementa el límite de intentos de login fallidos.
// Hay dos variantes: en memoria (proceso único) y sobre Redis (varias
// réplicas comparten el contador).
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/gestaosst/sst-api/internal/application/auth"
)

var _ auth.LoginLimiter = (*MemoryLimiter)(nil)

type bucket struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter cuenta fallos por clave en una ventana fija. Sirve para
// despliegues de un solo proceso; con réplicas usar RedisLimiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     int
	window  time.Duration
	stop    chan struct{}
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		stop:    make(chan struct{}),
	}
	go l.gc()
	return l
}

// Close detiene la limpieza periódica.
func (l *MemoryLimiter) Close() {
	close(l.stop)
}

func (l *MemoryLimiter) Check(ctx context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || l.expired(b) {
		return true, 0, nil
	}
	if b.count < l.max {
		return true, 0, nil
	}
	return false, time.Until(b.windowStart.Add(l.window)), nil
}

func (l *MemoryLimiter) RecordFailure(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || l.expired(b) {
		l.buckets[key] = &bucket{count: 1, windowStart: time.Now()}
		return nil
	}
	b.count++
	return nil
}

func (l *MemoryLimiter) Clear(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
	return nil
}

func (l *MemoryLimiter) expired(b *bucket) bool {
	return time.Since(b.windowStart) >= l.window
}

// gc elimina buckets vencidos para que el mapa no crezca sin límite.
func (l *MemoryLimiter) gc() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				if l.expired(b) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
