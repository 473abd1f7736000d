package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BloqueaTrasElMaximo(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	defer l.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := l.Check(ctx, "maria|10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "intento %d debería estar permitido", i+1)
		require.NoError(t, l.RecordFailure(ctx, "maria|10.0.0.1"))
	}

	allowed, retryAfter, err := l.Check(ctx, "maria|10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestMemoryLimiter_ClavesIndependientes(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "maria|10.0.0.1"))

	blocked, _, err := l.Check(ctx, "maria|10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	// Otra IP con el mismo identificador no está bloqueada.
	otherIP, _, err := l.Check(ctx, "maria|10.0.0.2")
	require.NoError(t, err)
	assert.True(t, otherIP)
}

func TestMemoryLimiter_ClearLiberaLaClave(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "maria|10.0.0.1"))
	require.NoError(t, l.Clear(ctx, "maria|10.0.0.1"))

	allowed, _, err := l.Check(ctx, "maria|10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter_LaVentanaVence(t *testing.T) {
	l := NewMemoryLimiter(1, 20*time.Millisecond)
	defer l.Close()
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "maria|10.0.0.1"))
	blocked, _, err := l.Check(ctx, "maria|10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	time.Sleep(30 * time.Millisecond)

	allowed, _, err := l.Check(ctx, "maria|10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}
