package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Rishabh1623/shopmetrics/internal/adapters/transport/http/dto"
	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"
)

// Service orchestrates the credential store, the session store and the
// token issuer within a single request/response cycle. No operation spans
// multiple requests and no background processing is involved.
type Service interface {
	Register(ctx context.Context, in dto.RegisterDTO) (uuid.UUID, error)
	Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error)
	Refresh(ctx context.Context, in dto.RefreshDTO) (model.AccessGrant, error)
	Logout(ctx context.Context, accessToken string) error
	RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequestDTO) error

	// Authenticate verifies a bearer access token and returns the user it
	// belongs to. Used by the transport layer to guard profile endpoints.
	Authenticate(accessToken string) (uuid.UUID, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.Profile, error)
}
