// Package cache keeps serialized session state in Redis so that separate
// CLI invocations or service replicas can skip the database on hot sessions.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/abhisek/bloomclimb/internal/codec"
)

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = 30 * time.Minute

const keyPrefix = "bloomclimb:session:"

// ErrMiss is returned by Get when no state is cached for a session.
var ErrMiss = errors.New("cache miss")

// Cache stores codec records keyed by session ID.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New wraps a Redis client.
func New(client redis.UniversalClient, ttl time.Duration) (*Cache, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Dial connects to a single Redis node and verifies it answers PING.
func Dial(ctx context.Context, addr, password string, db int) (redis.UniversalClient, error) {
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return client, nil
}

// Key returns the Redis key for a session.
func Key(sessionID string) string {
	return keyPrefix + sessionID
}

// TTL returns the expiry applied by Put.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Put stores a record and resets its expiry.
func (c *Cache) Put(ctx context.Context, sessionID string, rec codec.Record) error {
	data, err := codec.MarshalRecord(rec)
	if err != nil {
		return fmt.Errorf("cache session %s: %w", sessionID, err)
	}
	if err := c.client.Set(ctx, Key(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache session %s: %w", sessionID, err)
	}
	return nil
}

// Get returns the cached record or ErrMiss.
func (c *Cache) Get(ctx context.Context, sessionID string) (codec.Record, error) {
	data, err := c.client.Get(ctx, Key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return codec.Record{}, ErrMiss
		}
		return codec.Record{}, fmt.Errorf("read cached session %s: %w", sessionID, err)
	}
	rec, err := codec.UnmarshalRecord(data)
	if err != nil {
		return codec.Record{}, fmt.Errorf("read cached session %s: %w", sessionID, err)
	}
	return rec, nil
}

// Delete evicts a session. Evicting an absent session is not an error.
func (c *Cache) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, Key(sessionID)).Err(); err != nil {
		return fmt.Errorf("evict session %s: %w", sessionID, err)
	}
	return nil
}
