package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Cart operations using Redis hashes. One hash per session keyed
// cart:<session id>, field = product id, value = quantity. The whole hash
// carries a TTL refreshed on every write; an idle cart simply expires.

var ErrNotInCart = errors.New("product not in cart")

type CartStore struct {
	ttl time.Duration
}

func NewCartStore(ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CartStore{ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Get returns the product-id -> quantity mapping; an unknown session yields
// an empty cart, not an error.
func (c *CartStore) Get(ctx context.Context, sessionID string) (map[string]int, error) {
	data, err := Client().HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart %s: %w", sessionID, err)
	}

	cart := make(map[string]int, len(data))
	for productID, raw := range data {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 1 {
			continue
		}
		cart[productID] = qty
	}
	return cart, nil
}

// Add increments the product's quantity and refreshes the session TTL.
func (c *CartStore) Add(ctx context.Context, sessionID, productID string, quantity int) error {
	key := cartKey(sessionID)
	pipe := Client().TxPipeline()
	pipe.HIncrBy(ctx, key, productID, int64(quantity))
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add to cart %s: %w", sessionID, err)
	}
	return nil
}

// Remove decrements the product's quantity, or deletes the line when
// quantity is nil or the count reaches zero.
func (c *CartStore) Remove(ctx context.Context, sessionID, productID string, quantity *int) error {
	key := cartKey(sessionID)
	client := Client()

	exists, err := client.HExists(ctx, key, productID).Result()
	if err != nil {
		return fmt.Errorf("read cart %s: %w", sessionID, err)
	}
	if !exists {
		return ErrNotInCart
	}

	if quantity == nil {
		if err := client.HDel(ctx, key, productID).Err(); err != nil {
			return fmt.Errorf("remove from cart %s: %w", sessionID, err)
		}
	} else {
		remaining, err := client.HIncrBy(ctx, key, productID, int64(-*quantity)).Result()
		if err != nil {
			return fmt.Errorf("remove from cart %s: %w", sessionID, err)
		}
		if remaining <= 0 {
			if err := client.HDel(ctx, key, productID).Err(); err != nil {
				return fmt.Errorf("remove from cart %s: %w", sessionID, err)
			}
		}
	}

	return client.Expire(ctx, key, c.ttl).Err()
}

// Clear drops the whole session cart. Called after a fully committed
// checkout and exposed on the cart API.
func (c *CartStore) Clear(ctx context.Context, sessionID string) error {
	if err := Client().Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear cart %s: %w", sessionID, err)
	}
	return nil
}
