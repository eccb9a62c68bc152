package http

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rishabh1623/shopmetrics/internal/adapters/transport/http/dto"
	"github.com/Rishabh1623/shopmetrics/internal/app/auth/service"
	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/repo"
	authErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

const userIDKey = "userID"

type Handler struct {
	svc      service.Service
	sqlDB    *sql.DB
	sessions repo.SessionStore
	log      *zap.Logger
}

func NewHandler(svc service.Service, sqlDB *sql.DB, sessions repo.SessionStore, log *zap.Logger) *Handler {
	return &Handler{svc: svc, sqlDB: sqlDB, sessions: sessions, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
	auth.POST("/password-reset-request", h.passwordResetRequest)

	users := r.Group("/api/users", h.authRequired)
	users.GET("/profile", h.getProfile)
	users.PUT("/profile", h.updateProfile)

	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  userID.String(),
	})
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    int(pair.AccessTTL.Seconds()),
		"user": gin.H{
			"id":    pair.UserID.String(),
			"email": pair.Email,
		},
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": grant.AccessToken,
		"expiresIn":   int(grant.AccessTTL.Seconds()),
	})
}

func (h *Handler) logout(c *gin.Context) {
	// Best effort: a missing or invalid bearer token still yields success.
	if err := h.svc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) passwordResetRequest(c *gin.Context) {
	var body dto.PasswordResetRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), body); err != nil && !authErrors.IsInvalidArgument(err) {
		h.handleError(c, err)
		return
	}

	// Identical response for existing and unknown emails.
	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a password reset link has been sent",
	})
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.svc.GetProfile(c.Request.Context(), c.MustGet(userIDKey).(uuid.UUID))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":    profile.UserID.String(),
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"phone":     profile.Phone,
		"address":   profile.Address,
	})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var body dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), c.MustGet(userIDKey).(uuid.UUID), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":    profile.UserID.String(),
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"phone":     profile.Phone,
		"address":   profile.Address,
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ready probes both stores. A failed probe reports 503 without affecting
// in-flight requests.
func (h *Handler) ready(c *gin.Context) {
	if err := h.sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database unreachable"})
		return
	}
	if err := h.sessions.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "session store unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) authRequired(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	userID, err := h.svc.Authenticate(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		h.log.Error("internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
