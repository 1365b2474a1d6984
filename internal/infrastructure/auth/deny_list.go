package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionDenyList holds the ids of sessions closed before their expiry
type SessionDenyList interface {
	// Revoke denies the session for ttl, its remaining lifetime
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	// IsRevoked reports whether the session has been revoked
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

const denyListPrefix = "itou:session:revoked:"

// RedisSessionDenyList implements SessionDenyList with expiring Redis keys
type RedisSessionDenyList struct {
	client *redis.Client
}

// NewRedisSessionDenyList creates a deny-list on an existing client
func NewRedisSessionDenyList(client *redis.Client) *RedisSessionDenyList {
	return &RedisSessionDenyList{client: client}
}

// Revoke stores the session id until the session would have expired anyway
func (d *RedisSessionDenyList) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denyListPrefix+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks the session id
func (d *RedisSessionDenyList) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := d.client.Exists(ctx, denyListPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session deny-list: %w", err)
	}
	return n > 0, nil
}

var _ SessionDenyList = (*RedisSessionDenyList)(nil)

// InMemorySessionDenyList is a single process deny-list used by tests and
// by local runs without Redis
type InMemorySessionDenyList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewInMemorySessionDenyList creates an empty deny-list
func NewInMemorySessionDenyList() *InMemorySessionDenyList {
	return &InMemorySessionDenyList{revoked: make(map[string]time.Time)}
}

// Revoke denies the session for ttl
func (d *InMemorySessionDenyList) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[sessionID] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether the session is denied, forgetting expired entries
func (d *InMemorySessionDenyList) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(d.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

var _ SessionDenyList = (*InMemorySessionDenyList)(nil)
