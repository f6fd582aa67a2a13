package api

import (
	"net/http"
	"strings"

	"github.com/JustJay7/case-status-portal/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	claimsKey = "session_claims"
	tokenKey  = "session_token"

	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
)

// RequireSession rejects requests without a valid bearer token and stores the
// token's claims on the context. A missing token is 401, a rejected one 403.
func (h *Handlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := h.auth.Validate(token)
		if err != nil {
			respondError(c, http.StatusForbidden, "Invalid token")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// bearerToken extracts the token from "Bearer <token>"; anything else yields "".
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
