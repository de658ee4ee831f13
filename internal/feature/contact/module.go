package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/domain"
	"contactbook/internal/transport/http/ez"
)

// Module /api/v1/contacts 下的路由，全部需要登录
type Module struct {
	svc *Service
	log *zap.Logger
}

func NewModule(svc *Service, log *zap.Logger) *Module { return &Module{svc: svc, log: log} }

func (m *Module) Priority() int { return 20 }

func (m *Module) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, m.log)

	ez.RegisterAction(e, ez.Action[CreateRequest, View]{
		Method: http.MethodPost,
		Path:   "/contacts",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *CreateRequest) (View, error) {
			u, err := ez.User(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Create(c.Request.Context(), u, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[SearchRequest, domain.Page[View]]{
		Method: http.MethodGet,
		Path:   "/contacts",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *SearchRequest) (domain.Page[View], error) {
			u, err := ez.User(c)
			if err != nil {
				return domain.Page[View]{}, err
			}
			return m.svc.Search(c.Request.Context(), u, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, View]{
		Method: http.MethodGet,
		Path:   "/contacts/:contactId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			u, id, err := owner(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Get(c.Request.Context(), u, IDRequest{ID: id})
		},
	})

	ez.RegisterAction(e, ez.Action[UpdateRequest, View]{
		Method: http.MethodPut,
		Path:   "/contacts/:contactId",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *UpdateRequest) (View, error) {
			u, id, err := owner(c)
			if err != nil {
				return View{}, err
			}
			in.ID = id
			return m.svc.Update(c.Request.Context(), u, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, View]{
		Method: http.MethodDelete,
		Path:   "/contacts/:contactId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			u, id, err := owner(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Delete(c.Request.Context(), u, IDRequest{ID: id})
		},
	})
}

// owner 当前用户 + 路径中的 contactId
func owner(c *gin.Context) (*domain.User, int64, error) {
	u, err := ez.User(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := ez.PathID(c, "contactId")
	if err != nil {
		return nil, 0, err
	}
	return u, id, nil
}
