package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/transport/http/ez"
)

// Module /api/v1/users：注册、登录公开，其余需要登录
type Module struct {
	svc *Service
	log *zap.Logger
}

func NewModule(svc *Service, log *zap.Logger) *Module { return &Module{svc: svc, log: log} }

func (m *Module) Priority() int { return 10 }

func (m *Module) MountAPI(pub, authed *gin.RouterGroup) {
	open := ez.New(pub, m.log)

	ez.RegisterAction(open, ez.Action[RegisterRequest, View]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *RegisterRequest) (View, error) {
			return m.svc.Register(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(open, ez.Action[LoginRequest, View]{
		Method: http.MethodPost,
		Path:   "/users/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *LoginRequest) (View, error) {
			return m.svc.Login(c.Request.Context(), *in)
		},
	})

	me := ez.New(authed, m.log)

	ez.RegisterAction(me, ez.Action[struct{}, View]{
		Method: http.MethodGet,
		Path:   "/users/current",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			u, err := ez.User(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Current(c.Request.Context(), u), nil
		},
	})

	ez.RegisterAction(me, ez.Action[UpdateRequest, View]{
		Method: http.MethodPatch,
		Path:   "/users/current",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *UpdateRequest) (View, error) {
			u, err := ez.User(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Update(c.Request.Context(), u, *in)
		},
	})

	ez.RegisterAction(me, ez.Action[struct{}, View]{
		Method: http.MethodDelete,
		Path:   "/users/current",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			u, err := ez.User(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Logout(c.Request.Context(), u)
		},
	})
}
