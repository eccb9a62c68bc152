package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"
)

// UserRepo is the credential store. CreateUser and CreateProfile are two
// separate calls with no transaction between them; a crash after the first
// leaves a User without a Profile.
type UserRepo interface {
	CreateUser(ctx context.Context, user model.User) (uuid.UUID, error)
	CreateProfile(ctx context.Context, profile model.Profile) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UpdateProfile(ctx context.Context, profile model.Profile) error
}

// SessionStore is a thin key-value client over per-user keys
// (refresh_token:{userId}, session:{userId}, reset_token:{userId}).
// No locking: concurrent logins by one user race last-write-wins.
type SessionStore interface {
	SaveRefreshToken(ctx context.Context, userID string, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
	SaveSession(ctx context.Context, userID string, s model.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID string) error
	SaveResetToken(ctx context.Context, userID string, token string, ttl time.Duration) error
	GetResetToken(ctx context.Context, userID string) (string, error)
	Ping(ctx context.Context) error
}
