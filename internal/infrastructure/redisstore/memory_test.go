package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDenylist_RevocaYConsulta(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Otro jti no está afectado.
	other, err := d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestMemoryDenylist_LaEntradaVenceConElToken(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryDenylist_TTLNegativoNoRegistra(t *testing.T) {
	// Un token ya vencido no necesita revocación.
	d := NewMemoryDenylist()
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", -time.Minute))
	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
