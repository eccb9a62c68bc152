package service

import (
	"context"
	"errors"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Rishabh1623/shopmetrics/internal/adapters/transport/http/dto"
	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"
	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/repo"
	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/token"
	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
	"github.com/Rishabh1623/shopmetrics/internal/infra/config"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type authService struct {
	userRepo repo.UserRepo
	sessions repo.SessionStore
	issuer   token.Issuer
	cfg      *config.Config
	v        *validator.Validate
	m        *metrics.Auth
}

func New(
	ur repo.UserRepo,
	ss repo.SessionStore,
	iss token.Issuer,
	cfg *config.Config,
	v *validator.Validate,
	m *metrics.Auth,
) Service {
	return &authService{
		userRepo: ur, sessions: ss, issuer: iss, cfg: cfg, v: v, m: m,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (uuid.UUID, error) {
	// Validation happens before any store write: a short password or a
	// malformed email never reaches the credential store.
	if err := a.v.Struct(in); err != nil {
		return uuid.Nil, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return uuid.Nil, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: passwordHash,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "Register")
	}

	// No transaction wraps the two inserts: a failure here leaves a User
	// without a Profile. Accepted inconsistency window.
	profile := model.Profile{
		UserID:    user.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err = a.userRepo.CreateProfile(ctx, profile); err != nil {
		return uuid.Nil, customErrors.WrapInternal(err, "Register")
	}

	a.m.RegistrationsTotal.Inc()
	return user.ID, nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	// Unknown email returns before any hash work, so this branch is
	// observably faster than a wrong password. Known asymmetry, kept.
	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		a.m.LoginsTotal.WithLabelValues("failure").Inc()
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		a.m.LoginsTotal.WithLabelValues("failure").Inc()
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	at, _, err := a.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueAccess")
	}
	rt, _, err := a.issuer.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueRefresh")
	}

	// Both keys get the refresh TTL. Overwriting refresh_token:{uid}
	// invalidates whatever token a previous login stored there.
	uid := user.ID.String()
	if err = a.sessions.SaveRefreshToken(ctx, uid, rt, a.cfg.RefreshTokenTTL); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "SaveRefreshToken")
	}
	session := model.Session{UserID: uid, Email: user.Email}
	if err = a.sessions.SaveSession(ctx, uid, session, a.cfg.RefreshTokenTTL); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "SaveSession")
	}

	a.m.LoginsTotal.WithLabelValues("success").Inc()
	a.m.ActiveSessions.Inc()

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    a.cfg.AccessTokenTTL,
		RefreshTTL:   a.cfg.RefreshTokenTTL,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.AccessGrant, error) {
	if err := a.v.Struct(in); err != nil {
		return model.AccessGrant{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.issuer.Verify(in.RefreshToken, token.TypeRefresh)
	if err != nil {
		return model.AccessGrant{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.AccessGrant{}, customErrors.ErrInvalidToken
	}

	// Single-active-refresh-token policy: the presented token must match
	// the stored value byte for byte. Logout deletes the key and a second
	// login overwrites it, so older tokens fail here even while their
	// signature is still valid.
	stored, err := a.sessions.GetRefreshToken(ctx, uid.String())
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.AccessGrant{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.AccessGrant{}, customErrors.WrapInternal(err, "Refresh")
	}
	if stored != in.RefreshToken {
		return model.AccessGrant{}, customErrors.ErrInvalidToken
	}

	// New access token only. The refresh token is not rotated and the
	// session TTL is not extended: a session still expires 7 days after
	// login regardless of refresh activity.
	at, _, err := a.issuer.IssueAccess(uid, claims.Email)
	if err != nil {
		return model.AccessGrant{}, customErrors.WrapInternal(err, "IssueAccess")
	}

	return model.AccessGrant{
		AccessToken: at,
		AccessTTL:   a.cfg.AccessTokenTTL,
	}, nil
}

func (a *authService) Logout(ctx context.Context, accessToken string) error {
	// Best effort and idempotent: an absent or invalid token is not an
	// error, the caller gets success either way.
	if accessToken == "" {
		return nil
	}
	claims, err := a.issuer.Verify(accessToken, token.TypeAccess)
	if err != nil {
		return nil
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}

	if err := a.sessions.DeleteSession(ctx, uid.String()); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}
	if err := a.sessions.DeleteRefreshToken(ctx, uid.String()); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}

	a.m.ActiveSessions.Dec()
	return nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequestDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	a.m.PasswordResetRequestsTotal.Inc()

	// The caller gets the same answer whether or not the account exists,
	// so this endpoint cannot be used to enumerate emails.
	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return nil
	case err != nil:
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	rt, _, err := a.issuer.IssueReset(user.ID, user.Email)
	if err != nil {
		return customErrors.WrapInternal(err, "IssueReset")
	}
	if err := a.sessions.SaveResetToken(ctx, user.ID.String(), rt, a.cfg.ResetTokenTTL); err != nil {
		return customErrors.WrapInternal(err, "SaveResetToken")
	}

	// Actual email delivery is not implemented.
	return nil
}

func (a *authService) Authenticate(accessToken string) (uuid.UUID, error) {
	claims, err := a.issuer.Verify(accessToken, token.TypeAccess)
	if err != nil {
		return uuid.Nil, customErrors.ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, customErrors.ErrInvalidToken
	}
	return uid, nil
}

func (a *authService) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	profile, err := a.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return model.Profile{}, customErrors.ErrNotFound
		}
		return model.Profile{}, customErrors.WrapInternal(err, "GetProfile")
	}
	return profile, nil
}

func (a *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.Profile, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Profile{}, customErrors.NewInvalidArgument(err.Error())
	}

	profile, err := a.userRepo.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Profile{}, customErrors.ErrNotFound
	case err != nil:
		return model.Profile{}, customErrors.WrapInternal(err, "UpdateProfile")
	}

	profile.FirstName = in.FirstName
	profile.LastName = in.LastName
	profile.Phone = in.Phone
	profile.Address = in.Address

	if err := a.userRepo.UpdateProfile(ctx, profile); err != nil {
		return model.Profile{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	return profile, nil
}
