package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionEntry is the Redis-side record of a live session, keyed by the
// token's jti. A token whose entry is gone is no longer accepted, which
// is what makes sign-out effective before the JWT expires.
type SessionEntry struct {
	AuthUserID uuid.UUID `json:"authUserId"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SessionCache provides session registration operations.
type SessionCache struct {
	redis *RedisClient
}

// NewSessionCache creates a new SessionCache.
func NewSessionCache(redis *RedisClient) *SessionCache {
	return &SessionCache{redis: redis}
}

func (c *SessionCache) key(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// Create registers a session under its jti with the given TTL.
func (c *SessionCache) Create(ctx context.Context, jti string, entry *SessionEntry, ttl time.Duration) error {
	entry.CreatedAt = time.Now()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session entry: %w", err)
	}
	return c.redis.Set(ctx, c.key(jti), string(data), ttl)
}

// Get returns the session entry for a jti, or ErrCacheMiss if the session
// has been revoked or expired.
func (c *SessionCache) Get(ctx context.Context, jti string) (*SessionEntry, error) {
	data, err := c.redis.Get(ctx, c.key(jti))
	if err != nil {
		return nil, err
	}
	var entry SessionEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session entry: %w", err)
	}
	return &entry, nil
}

// Delete revokes one or more sessions by jti. Unknown jtis are ignored.
func (c *SessionCache) Delete(ctx context.Context, jtis ...string) error {
	keys := make([]string, 0, len(jtis))
	for _, jti := range jtis {
		keys = append(keys, c.key(jti))
	}
	return c.redis.Delete(ctx, keys...)
}

// List returns all live sessions keyed by jti. Entries that disappear or
// fail to decode mid-scan are skipped.
func (c *SessionCache) List(ctx context.Context) (map[string]*SessionEntry, error) {
	keys, err := c.redis.ScanKeys(ctx, "session:*")
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]*SessionEntry, len(keys))
	for _, key := range keys {
		data, err := c.redis.Get(ctx, key)
		if err != nil {
			continue
		}
		var entry SessionEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			continue
		}
		jti := strings.TrimPrefix(key, "session:")
		sessions[jti] = &entry
	}
	return sessions, nil
}
