package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"
	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

// Key templates. One key of each kind per user, so a new login overwrites
// the previous refresh token and session.
const (
	refreshTokenKey = "refresh_token:%s"
	sessionKey      = "session:%s"
	resetTokenKey   = "reset_token:%s"
)

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.client.Set(ctx, fmt.Sprintf(refreshTokenKey, userID), token, ttl).Err()
}

func (r *RedisSessionStore) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf(refreshTokenKey, userID)).Result()
	switch {
	case err == redis.Nil:
		return "", customErrors.ErrNotFound
	case err != nil:
		return "", customErrors.WrapInternal(err, "GetRefreshToken")
	}
	return val, nil
}

func (r *RedisSessionStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	return r.client.Del(ctx, fmt.Sprintf(refreshTokenKey, userID)).Err()
}

func (r *RedisSessionStore) SaveSession(ctx context.Context, userID string, s model.Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return customErrors.WrapInternal(err, "SaveSession")
	}
	return r.client.Set(ctx, fmt.Sprintf(sessionKey, userID), payload, ttl).Err()
}

func (r *RedisSessionStore) DeleteSession(ctx context.Context, userID string) error {
	return r.client.Del(ctx, fmt.Sprintf(sessionKey, userID)).Err()
}

func (r *RedisSessionStore) SaveResetToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.client.Set(ctx, fmt.Sprintf(resetTokenKey, userID), token, ttl).Err()
}

func (r *RedisSessionStore) GetResetToken(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf(resetTokenKey, userID)).Result()
	switch {
	case err == redis.Nil:
		return "", customErrors.ErrNotFound
	case err != nil:
		return "", customErrors.WrapInternal(err, "GetResetToken")
	}
	return val, nil
}

func (r *RedisSessionStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
