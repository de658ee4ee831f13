package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/core/auth"
	"contactbook/internal/core/server"
	mdw "contactbook/internal/transport/http/middleware"
)

// NewAdminEngine 运维端：/admin/v1，统一要求 admin 角色的 JWT
func NewAdminEngine(l *zap.Logger, o Options, jwter *auth.JWTer, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, server.Options{Name: o.Name, Mode: o.Mode})
	r.Use(o.middlewares(l)...)
	mountOps(r, o)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))

	reg.MountAdmin(admin)
	return r
}
