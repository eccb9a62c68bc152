package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a credential-store row. Rows are never physically deleted;
// password_hash is the only field mutated after creation.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile owns a 1:1 relation with User, created alongside it at registration.
type Profile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is the server-side marker of an active login, stored in the
// session store as JSON under session:{userId}.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       uuid.UUID
	Email        string
}

// AccessGrant is what Refresh returns: a new access token only, the
// refresh token is not rotated.
type AccessGrant struct {
	AccessToken string
	AccessTTL   time.Duration
}
