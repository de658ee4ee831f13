package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/core/server"
	mdw "contactbook/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/v1，会话令牌鉴权
func NewAPIEngine(l *zap.Logger, o Options, sessions mdw.SessionResolver, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, server.Options{Name: o.Name, Mode: o.Mode})
	r.Use(o.middlewares(l)...)
	mountOps(r, o)

	api := r.Group("/api/v1")

	// 鉴权分组：需要登录的路由都挂这里
	authed := api.Group("")
	authed.Use(mdw.AuthSession(sessions, l))

	reg.MountAPI(api, authed)
	return r
}
