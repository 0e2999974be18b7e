package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps one JSON document per user; the TTL is refreshed on every save.
type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: ttl}
}

func (c *RedisCartStore) CartKey(userID string) string {
	return "cart:" + userID
}

// Load returns nil when the user has no cart yet.
func (c *RedisCartStore) Load(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := c.Client.Get(ctx, c.CartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cart := domain.NewCart(userID)
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, fmt.Errorf("decode cart of %s: %w", userID, err)
	}
	if cart.Lines == nil {
		cart.Lines = map[string]domain.CartLine{}
	}
	return cart, nil
}

func (c *RedisCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.CartKey(cart.UserID), payload, c.TTL).Err()
}

func (c *RedisCartStore) Clear(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, c.CartKey(userID)).Err()
}

var _ service.CartStore = (*RedisCartStore)(nil)
