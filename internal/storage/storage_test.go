package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "donations")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	require.NoError(t, s.Set(ctx, "donations", []byte(`[]`)))
	v, err := s.Get(ctx, "donations")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)

	// Returned slice is a copy; mutating it must not affect the store.
	v[0] = 'x'
	v2, err := s.Get(ctx, "donations")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v2)

	require.NoError(t, s.Delete(ctx, "donations"))
	_, err = s.Get(ctx, "donations")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	// Deleting a missing slot is a no-op.
	assert.NoError(t, s.Delete(ctx, "donations"))
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "foodsaver:")

	_, err := s.Get(ctx, "users")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	require.NoError(t, s.Set(ctx, "users", []byte(`[{"user_id":"u1"}]`)))
	v, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"user_id":"u1"}]`), v)

	// Keys are namespaced under the prefix.
	assert.True(t, mr.Exists("foodsaver:users"))

	require.NoError(t, s.Delete(ctx, "users"))
	_, err = s.Get(ctx, "users")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
