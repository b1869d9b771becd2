package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware gates every protected route: it resolves the
// caller's identity from the access token or rejects with 401 before
// any handler runs.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken := extractAccessToken(c)
	if accessToken == "" {
		abort(c, http.StatusUnauthorized, "access token required")
		return
	}

	userID, err := h.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("rejected access token")
		abort(c, http.StatusUnauthorized, "invalid or expired access token")
		return
	}

	c.Set(userIDCtxKey, userID)
	c.Next()
}

// The token travels either in the accessToken cookie or in the
// Authorization header; the cookie wins when both are present.
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

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

func userIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(userIDCtxKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
