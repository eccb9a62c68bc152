package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

const (
	cartCacheKey = "cart:%s"
	cartCacheTTL = 5 * time.Minute
)

type CartCache struct {
	client *redis.Client
}

func NewCartCache(client *redis.Client) *CartCache {
	return &CartCache{client: client}
}

func (c *CartCache) Get(ctx context.Context, cartID string) (Cart, error) {
	raw, err := c.client.Get(ctx, fmt.Sprintf(cartCacheKey, cartID)).Bytes()
	switch {
	case err == redis.Nil:
		return Cart{}, customErrors.ErrNotFound
	case err != nil:
		return Cart{}, customErrors.WrapInternal(err, "cart cache get")
	}

	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return Cart{}, customErrors.WrapInternal(err, "cart cache decode")
	}
	return cart, nil
}

func (c *CartCache) Set(ctx context.Context, cart Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return customErrors.WrapInternal(err, "cart cache encode")
	}
	return c.client.Set(ctx, fmt.Sprintf(cartCacheKey, cart.ID), payload, cartCacheTTL).Err()
}

// Delete drops the cached cart. Called when the cart is consumed by an
// order so stale carts do not outlive the conversion.
func (c *CartCache) Delete(ctx context.Context, cartID string) error {
	return c.client.Del(ctx, fmt.Sprintf(cartCacheKey, cartID)).Err()
}

func (c *CartCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
