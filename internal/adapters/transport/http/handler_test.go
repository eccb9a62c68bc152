package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	transport "github.com/Rishabh1623/shopmetrics/internal/adapters/transport/http"
	apptoken "github.com/Rishabh1623/shopmetrics/internal/app/auth/token"
	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"

	appsvc "github.com/Rishabh1623/shopmetrics/internal/app/auth/service"
	authErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
	"github.com/Rishabh1623/shopmetrics/internal/infra/config"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
)

type userRepoStub struct {
	users    map[string]model.User
	profiles map[string]model.Profile
}

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (uuid.UUID, error) {
	for _, v := range u.users {
		if v.Email == m.Email {
			return uuid.Nil, authErrors.ErrAlreadyExists
		}
	}
	u.users[m.ID.String()] = m
	return m.ID, nil
}
func (u *userRepoStub) CreateProfile(_ context.Context, p model.Profile) error {
	u.profiles[p.UserID.String()] = p
	return nil
}
func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	for _, v := range u.users {
		if v.Email == email {
			return v, nil
		}
	}
	return model.User{}, authErrors.ErrNotFound
}
func (u *userRepoStub) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	v, ok := u.users[id.String()]
	if !ok {
		return model.User{}, authErrors.ErrNotFound
	}
	return v, nil
}
func (u *userRepoStub) GetProfile(_ context.Context, id uuid.UUID) (model.Profile, error) {
	p, ok := u.profiles[id.String()]
	if !ok {
		return model.Profile{}, authErrors.ErrNotFound
	}
	return p, nil
}
func (u *userRepoStub) UpdateProfile(_ context.Context, p model.Profile) error {
	u.profiles[p.UserID.String()] = p
	return nil
}

type sessionStoreStub struct {
	refresh  map[string]string
	sessions map[string]model.Session
	reset    map[string]string
	pingErr  error
}

func (s *sessionStoreStub) SaveRefreshToken(_ context.Context, uid, token string, _ time.Duration) error {
	s.refresh[uid] = token
	return nil
}
func (s *sessionStoreStub) GetRefreshToken(_ context.Context, uid string) (string, error) {
	t, ok := s.refresh[uid]
	if !ok {
		return "", authErrors.ErrNotFound
	}
	return t, nil
}
func (s *sessionStoreStub) DeleteRefreshToken(_ context.Context, uid string) error {
	delete(s.refresh, uid)
	return nil
}
func (s *sessionStoreStub) SaveSession(_ context.Context, uid string, sess model.Session, _ time.Duration) error {
	s.sessions[uid] = sess
	return nil
}
func (s *sessionStoreStub) DeleteSession(_ context.Context, uid string) error {
	delete(s.sessions, uid)
	return nil
}
func (s *sessionStoreStub) SaveResetToken(_ context.Context, uid, token string, _ time.Duration) error {
	s.reset[uid] = token
	return nil
}
func (s *sessionStoreStub) GetResetToken(_ context.Context, uid string) (string, error) {
	t, ok := s.reset[uid]
	if !ok {
		return "", authErrors.ErrNotFound
	}
	return t, nil
}
func (s *sessionStoreStub) Ping(_ context.Context) error { return s.pingErr }

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
		Issuer:          "test",
		Audience:        "test",
	}

	ur := &userRepoStub{users: map[string]model.User{}, profiles: map[string]model.Profile{}}
	ss := &sessionStoreStub{
		refresh:  map[string]string{},
		sessions: map[string]model.Session{},
		reset:    map[string]string{},
	}

	issuer, err := apptoken.NewIssuer(cfg)
	require.NoError(t, err)

	svc := appsvc.New(ur, ss, issuer, cfg, validator.New(), metrics.NewAuth(prometheus.NewRegistry()))

	r := gin.New()
	handler := transport.NewHandler(svc, nil, ss, zap.NewNop())
	handler.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestRegisterLoginRefreshLogoutFlow(t *testing.T) {
	r := newRouter(t)

	// register
	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "password1", "firstName": "A", "lastName": "B",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, resp["userId"])

	// login
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	accessToken := resp["accessToken"].(string)
	refreshToken := resp["refreshToken"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	require.Equal(t, float64(15*60), resp["expiresIn"])
	user := resp["user"].(map[string]any)
	require.Equal(t, "a@x.com", user["email"])

	// refresh
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/refresh", gin.H{
		"refreshToken": refreshToken,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, resp["accessToken"])

	// logout
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// old refresh token is rejected after logout
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/refresh", gin.H{
		"refreshToken": refreshToken,
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid token", resp["error"])
}

func TestRegister_Validation(t *testing.T) {
	r := newRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "not-an-email", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Duplicate(t *testing.T) {
	r := newRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "password2",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	r := newRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "missing@x.com", "password": "whatever",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid credentials", resp["error"])
}

func TestLogout_WithoutTokenStillSucceeds(t *testing.T) {
	r := newRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPasswordResetRequest_SameMessageEitherWay(t *testing.T) {
	r := newRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, existing := doJSON(t, r, http.MethodPost, "/api/auth/password-reset-request", gin.H{
		"email": "a@x.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, unknown := doJSON(t, r, http.MethodPost, "/api/auth/password-reset-request", gin.H{
		"email": "missing@x.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, existing["message"], unknown["message"])
}

func TestProfile_RequiresAuth(t *testing.T) {
	r := newRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/users/profile", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/users/profile", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	r := newRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "password1", "firstName": "A", "lastName": "B",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	authHeader := map[string]string{"Authorization": "Bearer " + resp["accessToken"].(string)}

	w, profile := doJSON(t, r, http.MethodGet, "/api/users/profile", nil, authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "A", profile["firstName"])

	w, profile = doJSON(t, r, http.MethodPut, "/api/users/profile", gin.H{
		"firstName": "Alice", "lastName": "Brown", "phone": "+15550100", "address": "1 Main St",
	}, authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Alice", profile["firstName"])
	require.Equal(t, "+15550100", profile["phone"])
}

func TestHealth(t *testing.T) {
	r := newRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", resp["status"])
}
