package middleware

import (
	"net/http"
	"strings"

	"edubot-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContextEmailKey is where AuthRequired stores the authenticated email.
const ContextEmailKey = "authEmail"

// AuthRequired validates the Bearer token and puts the caller's email into
// the context. Every failure (missing header, bad signature, expired token,
// malformed claims) collapses to the same 401.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Error(c, http.StatusUnauthorized, "token is missing")
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.Email == "" {
			util.Error(c, http.StatusUnauthorized, "token is invalid")
			c.Abort()
			return
		}

		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// AuthEmail returns the authenticated email set by AuthRequired, if any.
func AuthEmail(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}
