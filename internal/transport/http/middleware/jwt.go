package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carrental/internal/pkg/jwtutil"
	"carrental/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// AuthJWT accepts a bearer token or the login cookie and answers 401 JSON
// otherwise.
func AuthJWT(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, secret, cookieName)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequirePage guards HTML pages: without a valid token the browser is sent
// back to the landing page.
func RequirePage(secret, cookieName, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, secret, cookieName)
		if !ok {
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context, secret, cookieName string) (*jwtutil.Claims, bool) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" && cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			token = strings.TrimSpace(cookie)
		}
	}
	if token == "" {
		return nil, false
	}

	claims, err := jwtutil.ParseToken(secret, token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func setClaims(c *gin.Context, claims *jwtutil.Claims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextUsernameKey, claims.Username)
}

// UserID returns the authenticated user id set by AuthJWT or RequirePage.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
