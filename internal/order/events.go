package order

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

const eventsChannel = "orders.events"

type OrderCreatedEvent struct {
	Event           string  `json:"event"`
	OrderID         string  `json:"order_id"`
	OrderNumber     string  `json:"order_number"`
	UserID          string  `json:"user_id"`
	Total           float64 `json:"total"`
	Currency        string  `json:"currency"`
	PaymentMethodID string  `json:"payment_method_id"`
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error
}

// RedisPublisher announces new orders on a pub/sub channel for downstream
// consumers (payment processing, notifications).
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return customErrors.WrapInternal(err, "PublishOrderCreated")
	}
	return p.client.Publish(ctx, eventsChannel, payload).Err()
}
