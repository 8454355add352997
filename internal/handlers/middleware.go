package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ctxUserID is the gin context key the auth middleware stores the caller under.
const ctxUserID = "userId"

const (
	errMissingAuthHeader = "missing Authorization header"
	errBadAuthHeader     = "invalid Authorization header format"
	errBadToken          = "invalid or expired token"
)

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-insensitive. On failure it returns the client-facing message.
func bearerToken(header string) (token, errMsg string) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuthHeader
	}
	return token, ""
}

func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, msg := bearerToken(c.GetHeader("Authorization"))
	if msg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

// currentUserID returns the authenticated caller, or 0 outside the API group.
func currentUserID(c *gin.Context) int {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(int)
	return id
}

// audit records a state-changing admin action with the caller attached.
func (h *Handler) audit(c *gin.Context, action string, kv ...interface{}) {
	if h.log == nil {
		return
	}
	h.log.Infow(action, append([]interface{}{"user_id", currentUserID(c)}, kv...)...)
}
