package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	mdw "contactbook/internal/transport/http/middleware"
	resp "contactbook/internal/transport/http/response"
)

// Options 两个引擎共用的保护参数；<=0 表示不启用该项
type Options struct {
	Name           string
	Mode           string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	PerIPRPS       float64
	PerIPBurst     int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	// Health 非 nil 时 /health 会调用它（通常是 DB Ping）
	Health func(ctx context.Context) error
}

func (o Options) middlewares(l *zap.Logger) []gin.HandlerFunc {
	hs := []gin.HandlerFunc{mdw.RequestID()}
	if o.RateLimitRPS > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(o.RateLimitRPS), max(o.RateLimitBurst, 1)))
	}
	if o.PerIPRPS > 0 {
		hs = append(hs, mdw.RateLimitPerIP(rate.Limit(o.PerIPRPS), max(o.PerIPBurst, 1)))
	}
	if o.MaxConcurrent > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(o.MaxConcurrent))
	}
	if o.MaxBodyBytes > 0 {
		hs = append(hs, mdw.MaxBodyBytes(o.MaxBodyBytes))
	}
	if o.RequestTimeout > 0 {
		hs = append(hs, mdw.Timeout(o.RequestTimeout))
	}
	return append(hs, mdw.Metrics(), mdw.AccessLog(l))
}

// mountOps /health + /metrics + 统一 404
func mountOps(r *gin.Engine, o Options) {
	r.GET("/health", func(c *gin.Context) {
		if o.Health != nil {
			if err := o.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "unhealthy"))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "route not found"))
	})
}
