package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	userCtxKey          = "userId"
)

// userIdMiddleware guards the /api/v1 group: it validates the Bearer token
// issued at /auth/sign-in and stores the operator id under userCtxKey for
// downstream handlers.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	raw := c.GetHeader(authorizationHeader)
	if raw == "" {
		abortUnauthorized(c, "authorization required")
		return
	}

	token, ok := strings.CutPrefix(raw, bearerPrefix)
	if !ok || token == "" {
		abortUnauthorized(c, "authorization must be a Bearer token")
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		abortUnauthorized(c, "invalid or expired token")
		return
	}

	c.Set(userCtxKey, userID)
	c.Next()
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
