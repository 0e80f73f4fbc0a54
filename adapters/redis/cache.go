// Package redis caches resolved sessions in Redis so multiple gateway
// replicas share one warm cache instead of each re-fetching profiles.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/eventra/gateway/core"
)

const keyPrefix = "eventra:session:"

// envelope exists because Session.Token is excluded from JSON on the wire;
// the cache is internal and must round-trip it.
type envelope struct {
	User  *core.Identity `json:"user"`
	Token string         `json:"token"`
}

type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ core.Cache = (*Cache)(nil)

// New wraps client as a session cache. A zero ttl defaults to five minutes,
// matching the in-memory cache.
func New(client *goredis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(tokenHash string) (*core.Session, error) {
	data, err := c.client.Get(context.Background(), keyPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, core.ErrCacheNotFound
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Treat undecodable entries as a miss; the durable record is
		// still authoritative.
		_ = c.Delete(tokenHash)
		return nil, core.ErrCacheNotFound
	}
	return &core.Session{User: env.User, Token: env.Token}, nil
}

func (c *Cache) Set(tokenHash string, session *core.Session) error {
	data, err := json.Marshal(envelope{User: session.User, Token: session.Token})
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(context.Background(), keyPrefix+tokenHash, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *Cache) Delete(tokenHash string) error {
	if err := c.client.Del(context.Background(), keyPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *Cache) Clear() error {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}
