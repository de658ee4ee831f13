package address

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/domain"
	"contactbook/internal/transport/http/ez"
)

// Module /api/v1/contacts/:contactId/addresses 下的路由
type Module struct {
	svc *Service
	log *zap.Logger
}

func NewModule(svc *Service, log *zap.Logger) *Module { return &Module{svc: svc, log: log} }

func (m *Module) Priority() int { return 30 }

func (m *Module) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, m.log)

	ez.RegisterAction(e, ez.Action[CreateRequest, View]{
		Method: http.MethodPost,
		Path:   "/contacts/:contactId/addresses",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *CreateRequest) (View, error) {
			u, contactID, err := parent(c)
			if err != nil {
				return View{}, err
			}
			in.ContactID = contactID
			return m.svc.Create(c.Request.Context(), u, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []View]{
		Method: http.MethodGet,
		Path:   "/contacts/:contactId/addresses",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]View, error) {
			u, contactID, err := parent(c)
			if err != nil {
				return nil, err
			}
			return m.svc.List(c.Request.Context(), u, ListRequest{ContactID: contactID})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, View]{
		Method: http.MethodGet,
		Path:   "/contacts/:contactId/addresses/:addressId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			u, req, err := ids(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Get(c.Request.Context(), u, req)
		},
	})

	ez.RegisterAction(e, ez.Action[UpdateRequest, View]{
		Method: http.MethodPut,
		Path:   "/contacts/:contactId/addresses/:addressId",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *UpdateRequest) (View, error) {
			u, req, err := ids(c)
			if err != nil {
				return View{}, err
			}
			in.ContactID, in.ID = req.ContactID, req.AddressID
			return m.svc.Update(c.Request.Context(), u, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, View]{
		Method: http.MethodDelete,
		Path:   "/contacts/:contactId/addresses/:addressId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (View, error) {
			u, req, err := ids(c)
			if err != nil {
				return View{}, err
			}
			return m.svc.Delete(c.Request.Context(), u, req)
		},
	})
}

func parent(c *gin.Context) (*domain.User, int64, error) {
	u, err := ez.User(c)
	if err != nil {
		return nil, 0, err
	}
	contactID, err := ez.PathID(c, "contactId")
	if err != nil {
		return nil, 0, err
	}
	return u, contactID, nil
}

func ids(c *gin.Context) (*domain.User, IDRequest, error) {
	u, contactID, err := parent(c)
	if err != nil {
		return nil, IDRequest{}, err
	}
	addressID, err := ez.PathID(c, "addressId")
	if err != nil {
		return nil, IDRequest{}, err
	}
	return u, IDRequest{ContactID: contactID, AddressID: addressID}, nil
}
