package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token subtypes carried in the token_type claim. Verify rejects a token
// whose subtype does not match the expected one, so a refresh token can
// never be used as an access token or vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeReset   = "reset"
)

type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
}

// Issuer mints and verifies signed, expiring tokens. It is stateless:
// there is no revocation list, revocation happens only through the
// session-store comparison in Refresh.
type Issuer interface {
	IssueAccess(userID uuid.UUID, email string) (token string, exp time.Time, err error)
	IssueRefresh(userID uuid.UUID, email string) (token string, exp time.Time, err error)
	IssueReset(userID uuid.UUID, email string) (token string, exp time.Time, err error)
	Verify(raw string, wantType string) (Claims, error)
}
