package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "contactbook/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；超限在绑定阶段报错，这里兜底未写响应的情况
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Errors.Last() != nil && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, "request body too large"))
		}
	}
}
