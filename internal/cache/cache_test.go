package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bloomclimb/internal/codec"
	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "bloomclimb:session:abc", Key("abc"))
}

func TestNew(t *testing.T) {
	_, err := New(nil, time.Minute)
	require.Error(t, err)
}

func TestDial_EmptyAddr(t *testing.T) {
	_, err := Dial(context.Background(), "", "", 0)
	require.Error(t, err)
}

// redisCache connects to BLOOMCLIMB_TEST_REDIS or skips the test.
func redisCache(t *testing.T) *Cache {
	t.Helper()
	addr := os.Getenv("BLOOMCLIMB_TEST_REDIS")
	if addr == "" {
		t.Skip("BLOOMCLIMB_TEST_REDIS not set")
	}
	client, err := Dial(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	c, err := New(client, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())
	return c
}

func TestPutGetDelete(t *testing.T) {
	c := redisCache(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := c.Get(ctx, id)
	assert.True(t, errors.Is(err, ErrMiss))

	rec := codec.ToRecord(engine.NewState(level.Evaluate))
	require.NoError(t, c.Put(ctx, id, rec))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, c.Delete(ctx, id))
	_, err = c.Get(ctx, id)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Delete(ctx, id))
}
