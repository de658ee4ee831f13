package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contactbook/internal/core/auth"
	resp "contactbook/internal/transport/http/response"
)

const (
	KeyClaims  = "claims"
	KeySubject = "subject"
)

// AuthJWT 运维后台鉴权；requireRole 为空时只校验签名
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeySubject, claims.Subject)
		c.Next()
	}
}
