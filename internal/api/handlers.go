package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JustJay7/case-status-portal/internal/auth"
	"github.com/JustJay7/case-status-portal/internal/cache"
	"github.com/JustJay7/case-status-portal/internal/dashboard"
	"github.com/JustJay7/case-status-portal/internal/store"
	"github.com/JustJay7/case-status-portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Authenticator is the session authority used by the handlers.
type Authenticator interface {
	Authenticate(ctx context.Context, caseNumber, lastName, password string) (*auth.Session, error)
	Validate(token string) (*auth.Claims, error)
	Logout(token string) error
}

// DashboardProvider builds the dashboard for an authenticated case.
type DashboardProvider interface {
	GetDashboard(ctx context.Context, caseNumber string) (*dashboard.View, error)
}

type cacheStatser interface {
	Stats() cache.CacheStats
}

// Handlers holds all HTTP handlers
type Handlers struct {
	auth      Authenticator
	dashboard DashboardProvider
	store     store.Store
	logger    *logger.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(authn Authenticator, dash DashboardProvider, st store.Store, log *logger.Logger) *Handlers {
	return &Handlers{
		auth:      authn,
		dashboard: dash,
		store:     st,
		logger:    log,
	}
}

type loginRequest struct {
	CaseNumber string `json:"case_number"`
	LastName   string `json:"last_name"`
	Password   string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// HealthCheck returns the liveness status
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeHealthy := true
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Record store unavailable", "error", err)
		storeHealthy = false
	}

	resp := gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"store":     storeHealthy,
	}
	if cs, ok := h.store.(cacheStatser); ok {
		resp["cache"] = cs.Stats()
	}

	c.JSON(http.StatusOK, resp)
}

// Login exchanges case credentials for a session token
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.auth.Authenticate(c.Request.Context(), req.CaseNumber, req.LastName, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrMissingFields):
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		h.logger.Error("Login failed", "error", err, "request_id", c.GetString(RequestIDKey))
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      sess.Token,
		"user":       sess.Profile,
		"expires_in": int64(sess.ExpiresAt.Sub(sess.Claims.IssuedAt.Time) / time.Second),
		"expires_at": sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Dashboard returns the authenticated case's dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Access token required")
		return
	}

	view, err := h.dashboard.GetDashboard(c.Request.Context(), claims.CaseNumber)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Dashboard failed",
			"error", err,
			"case_number", claims.CaseNumber,
			"request_id", c.GetString(RequestIDKey),
		)
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// VerifyToken reports whether a token is currently valid
func (h *Handlers) VerifyToken(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	claims, err := h.auth.Validate(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"user_id":     claims.UserID,
			"case_number": claims.CaseNumber,
			"user_type":   claims.UserType,
			"expires_at":  claims.ExpiresAtTime().UTC().Format(time.RFC3339),
		},
	})
}

// Logout ends the session
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.GetString(tokenKey)); err != nil {
		respondError(c, http.StatusForbidden, "Invalid token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// respondError writes the uniform {"error": message} body and stops the chain.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
