package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

const keyPrefix = "session:"

// SessionStorage stores session values under session:<sid>:<key>. Every
// read or write of a present key extends its expiry to the full TTL.
type SessionStorage struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSessionStorage(client redis.UniversalClient, ttl time.Duration) *SessionStorage {
	return &SessionStorage{client: client, ttl: ttl}
}

// Scope returns the storage of one browser session.
func (s *SessionStorage) Scope(sessionID string) ports.SessionStorage {
	return &scoped{parent: s, prefix: keyPrefix + sessionID + ":"}
}

type scoped struct {
	parent *SessionStorage
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.parent.client.GetEx(ctx, s.prefix+key, s.parent.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	if err := s.parent.client.Set(ctx, s.prefix+key, value, s.parent.ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.parent.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
