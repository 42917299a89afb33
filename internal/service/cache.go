package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const latestShoppingListKey = "shopping_list:latest"

var ErrNoShoppingList = errors.New("no shopping list cached")

// RedisShoppingListCache keeps the latest shopping list in Redis.
type RedisShoppingListCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisShoppingListCache(client *redis.Client, ttl time.Duration) *RedisShoppingListCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisShoppingListCache{redis: client, ttl: ttl}
}

func (c *RedisShoppingListCache) Save(ctx context.Context, list *ShoppingList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list: %w", err)
	}
	if err := c.redis.Set(ctx, latestShoppingListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache shopping list: %w", err)
	}
	return nil
}

func (c *RedisShoppingListCache) Latest(ctx context.Context) (*ShoppingList, error) {
	data, err := c.redis.Get(ctx, latestShoppingListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoShoppingList
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached shopping list: %w", err)
	}

	var list ShoppingList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list: %w", err)
	}
	return &list, nil
}
