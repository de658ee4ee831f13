package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/domain"
	"contactbook/internal/transport/http/ez"
	mdw "contactbook/internal/transport/http/middleware"
)

// AdminModule /admin/v1/users；分组已走 AuthJWT("admin")
type AdminModule struct {
	svc *Service
	log *zap.Logger
}

func NewAdminModule(svc *Service, log *zap.Logger) *AdminModule {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminModule{svc: svc, log: log}
}

func (m *AdminModule) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, m.log)

	// --- GET /admin/v1/users  用户列表 ---
	ez.RegisterAction(e, ez.Action[ListRequest, ListResult]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *ListRequest) (ListResult, error) {
			return m.svc.List(c.Request.Context(), *in)
		},
	})

	// --- POST /admin/v1/users/:username/revoke  强制下线 ---
	ez.RegisterAction(e, ez.Action[struct{}, View]{
		Method: http.MethodPost,
		Path:   "/users/:username/revoke",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			username := c.Param("username")
			if username == "" {
				return View{}, domain.NotFound("user is not found")
			}
			v, err := m.svc.Revoke(c.Request.Context(), username)
			if err == nil {
				m.log.Info("session revoked",
					zap.String("operator", c.GetString(mdw.KeySubject)),
					zap.String("user", username),
				)
			}
			return v, err
		},
	})
}
