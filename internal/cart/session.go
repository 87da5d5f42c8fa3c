package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps carts in Redis, keyed by session, with a TTL so
// abandoned carts expire on their own. A missing cart is rebuilt empty.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore connects to Redis at addr. ttl bounds how long an idle
// session cart survives.
func NewSessionStore(addr string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (s *SessionStore) key(sessionKey string) string {
	return fmt.Sprintf("kfc:cart:%s", sessionKey)
}

// Get loads the session's cart, returning a fresh empty cart when none is
// stored or the stored payload cannot be decoded.
func (s *SessionStore) Get(ctx context.Context, sessionKey string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.key(sessionKey)).Result()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return New(), nil
	}
	if c.Lines == nil {
		c.Lines = map[string]Line{}
	}
	return &c, nil
}

// Save stores the session's cart and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, sessionKey string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionKey), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

// Clear drops the session's cart.
func (s *SessionStore) Clear(ctx context.Context, sessionKey string) error {
	if err := s.client.Del(ctx, s.key(sessionKey)).Err(); err != nil {
		return fmt.Errorf("del cart: %w", err)
	}
	return nil
}
