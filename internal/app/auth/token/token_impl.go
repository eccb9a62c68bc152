package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"

	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/token"
	"github.com/Rishabh1623/shopmetrics/internal/infra/config"
)

type IssuerImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	issuer     string
	audience   string
}

func NewIssuer(cfg *config.Config) (*IssuerImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &IssuerImpl{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		resetTTL:   cfg.ResetTokenTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}, nil
}

func (i *IssuerImpl) IssueAccess(userID uuid.UUID, email string) (string, time.Time, error) {
	return i.issue(userID, email, token.TypeAccess, i.accessTTL)
}

func (i *IssuerImpl) IssueRefresh(userID uuid.UUID, email string) (string, time.Time, error) {
	return i.issue(userID, email, token.TypeRefresh, i.refreshTTL)
}

func (i *IssuerImpl) IssueReset(userID uuid.UUID, email string) (string, time.Time, error) {
	return i.issue(userID, email, token.TypeReset, i.resetTTL)
}

func (i *IssuerImpl) issue(userID uuid.UUID, email, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()

	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email:     email,
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, domainErrors.WrapInternal(err, "sign "+tokenType+" token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks signature, expiry, issuer/audience and the token subtype.
func (i *IssuerImpl) Verify(raw string, wantType string) (token.Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &token.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, domainErrors.ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithIssuedAt(), jwt.WithLeeway(2*time.Minute))

	if err != nil || !parsed.Valid {
		return token.Claims{}, domainErrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*token.Claims)
	if !ok {
		return token.Claims{}, domainErrors.WrapInternal(
			errors.New("claims have unexpected type"), "Verify",
		)
	}

	if claims.TokenType != wantType {
		return token.Claims{}, domainErrors.ErrInvalidToken
	}

	if i.issuer != "" && claims.Issuer != i.issuer {
		return token.Claims{}, domainErrors.ErrInvalidToken
	}

	if i.audience != "" {
		okAudi := false
		for _, a := range claims.Audience {
			if a == i.audience {
				okAudi = true
				break
			}
		}
		if !okAudi {
			return token.Claims{}, domainErrors.ErrInvalidToken
		}
	}

	return *claims, nil
}
