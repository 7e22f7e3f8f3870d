package middleware

import (
	"net/http"
	"strings"

	"eventease/internal/auth"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// bearerToken 取出 Authorization header 的 token；沒有 header 時 present 為 false
func bearerToken(c *gin.Context) (token string, present bool, ok bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false, false
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", true, false
	}
	token = strings.TrimSpace(header[len(bearerPrefix):])
	return token, true, token != ""
}

// RequireAuth 驗證 Bearer token，失敗回 401
func RequireAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, ok := bearerToken(c)
		if !present {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		auth.SetUser(c, *identity)
		c.Next()
	}
}

// OptionalAuth 有合法 token 就帶入身分，否則以訪客身分繼續
func OptionalAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, _, ok := bearerToken(c); ok {
			if identity, err := verifier.Verify(token); err == nil {
				auth.SetUser(c, *identity)
			}
		}
		c.Next()
	}
}
