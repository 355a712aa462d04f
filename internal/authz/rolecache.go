package authz

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleCache memoizes role-key lookups per user in Redis. It sits in front of
// the guard's role source, never inside the resolver, and is invalidated
// explicitly on sign-in and sign-out.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache constructs a RoleCache with the given TTL.
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{client: client, ttl: ttl}
}

// Get returns the cached role keys for a user, with ok=false on miss or any
// cache error; callers fall through to the role source.
func (c *RoleCache) Get(ctx context.Context, userID string) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, false
	}
	return keys, true
}

// Set stores role keys for a user. Cache write failures are ignored; the
// next request simply hits the role source again.
func (c *RoleCache) Set(ctx context.Context, userID string, keys []string) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

// Invalidate drops the cached entry for a user.
func (c *RoleCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.key(userID)).Err()
}

func (c *RoleCache) key(userID string) string {
	return "authz:roles:" + userID
}
