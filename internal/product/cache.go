package product

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

const (
	cacheKey = "product:%s"
	cacheTTL = 5 * time.Minute
)

// Cache is a read-through cache over the catalog. A miss is reported as
// ErrNotFound; store errors surface so callers can fall back to the
// database instead of failing the request.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, id string) (Product, error) {
	raw, err := c.client.Get(ctx, fmt.Sprintf(cacheKey, id)).Bytes()
	switch {
	case err == redis.Nil:
		return Product{}, customErrors.ErrNotFound
	case err != nil:
		return Product{}, customErrors.WrapInternal(err, "cache get")
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, customErrors.WrapInternal(err, "cache decode")
	}
	return p, nil
}

func (c *Cache) Set(ctx context.Context, p Product) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return customErrors.WrapInternal(err, "cache encode")
	}
	return c.client.Set(ctx, fmt.Sprintf(cacheKey, p.ID), payload, cacheTTL).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
