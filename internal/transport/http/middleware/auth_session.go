package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/domain"
	resp "contactbook/internal/transport/http/response"
)

const KeyUser = "user"

// SessionResolver 令牌 -> 用户；无效令牌返回 Unauthenticated
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// AuthSession 用户端鉴权：Authorization 头可以是裸令牌，也可以是 "Bearer <token>"
// 存储故障按 500 返回并记日志，细节不回给客户端
func AuthSession(r SessionResolver, l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		u, err := r.Resolve(c.Request.Context(), SessionToken(c.GetHeader("Authorization")))
		if err != nil {
			if domain.KindOf(err) == domain.KindUnauthenticated {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			_ = c.Error(err)
			l.Error("resolve session failed",
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
			return
		}
		c.Set(KeyUser, u)
		c.Next()
	}
}

func SessionToken(header string) string {
	h := strings.TrimSpace(header)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// CurrentUser 只在 AuthSession 之后的路由上可用
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(KeyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
