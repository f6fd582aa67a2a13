package api

import (
	"net/http"

	"github.com/JustJay7/case-status-portal/internal/store"
	"github.com/JustJay7/case-status-portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes. Every endpoint is served
// under the /api prefix, e.g. /api/health and /api/login.
func SetupRoutes(router *gin.Engine, authn Authenticator, dash DashboardProvider, st store.Store, logger *logger.Logger) {
	h := NewHandlers(authn, dash, st, logger)

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", h.HealthCheck)

		// Session endpoints
		api.POST("/login", h.Login)
		api.POST("/verify-token", h.VerifyToken)

		protected := api.Group("", h.RequireSession())
		protected.GET("/dashboard", h.Dashboard)
		protected.POST("/logout", h.Logout)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})
}
