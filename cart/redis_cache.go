package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tours/entity"
)

const cartItemsKeyPrefix = "cart-items:"

// Carts are kept for 30 days, matching the backend's cart retention.
const cartItemsTTL = 30 * 24 * time.Hour

// RedisCache is the durable client-side storage of the item list, keyed per
// session so an interrupted session resumes where it left off.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) RedisCache {
	if rdb == nil {
		panic("missing redis client")
	}

	return RedisCache{rdb: rdb}
}

func (c RedisCache) Save(ctx context.Context, sessionID string, items []entity.CartItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("could not marshal cart items: %w", err)
	}

	return c.rdb.Set(ctx, cartItemsKeyPrefix+sessionID, payload, cartItemsTTL).Err()
}

func (c RedisCache) Load(ctx context.Context, sessionID string) ([]entity.CartItem, bool, error) {
	payload, err := c.rdb.Get(ctx, cartItemsKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var items []entity.CartItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("could not unmarshal cached cart items: %w", err)
	}

	return items, true, nil
}

func (c RedisCache) Delete(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, cartItemsKeyPrefix+sessionID).Err()
}
