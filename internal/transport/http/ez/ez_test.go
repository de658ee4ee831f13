package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/internal/domain"
	resp "contactbook/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(domain.KindValidation))
	assert.Equal(t, http.StatusUnauthorized, Status(domain.KindUnauthenticated))
	assert.Equal(t, http.StatusNotFound, Status(domain.KindNotFound))
	assert.Equal(t, http.StatusConflict, Status(domain.KindConflict))
	assert.Equal(t, http.StatusInternalServerError, Status(domain.KindInternal))
}

type echoIn struct {
	N int `json:"n"`
}

func engine(handler func(c *gin.Context, in *echoIn) (any, error)) *gin.Engine {
	r := gin.New()
	RegisterAction(New(r.Group(""), nil), Action[echoIn, any]{
		Method:  http.MethodPost,
		Path:    "/echo/:id",
		Binder:  BindJSON,
		Handler: handler,
	})
	return r
}

func post(r *gin.Engine, path, body string) (*httptest.ResponseRecorder, resp.Resp) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegisterActionRendersErrors(t *testing.T) {
	r := engine(func(c *gin.Context, in *echoIn) (any, error) {
		if _, err := PathID(c, "id"); err != nil {
			return nil, err
		}
		switch in.N {
		case 1:
			return nil, domain.NotFound("contact is not found")
		case 2:
			return nil, domain.Internal("list contacts", errors.New("secret dsn leaked"))
		case 3:
			return nil, domain.Internal("list contacts", fmt.Errorf("query: %w", context.DeadlineExceeded))
		case 4:
			return domain.Page[int]{Items: []int{1, 2}, Paging: domain.Paging{CurrentPage: 1, Size: 2, TotalPage: 1}}, nil
		}
		return gin.H{"n": in.N}, nil
	})

	w, body := post(r, "/echo/1", `{"n":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.CodeOK, body.Code)

	w, _ = post(r, "/echo/1", `{"n":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = post(r, "/echo/1", `{"n":2}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Equal(t, "Internal Server Error", body.Msg)

	w, _ = post(r, "/echo/1", `{"n":3}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w, body = post(r, "/echo/1", `{"n":4}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, body.Paging)
	assert.Equal(t, 2, body.Paging.Size)

	w, body = post(r, "/echo/x", `{"n":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "id", body.Errors[0].Field)
}

func TestBindErrors(t *testing.T) {
	r := engine(func(*gin.Context, *echoIn) (any, error) { return nil, nil })

	cases := []struct {
		body  string
		field string
		rule  string
	}{
		{`{"n":"x"}`, "n", "type"},
		{`{"n":`, "body", "json"},
		{`{bad}`, "body", "json"},
		{``, "body", "required"},
	}
	for _, tc := range cases {
		w, body := post(r, "/echo/1", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.body)
		require.Len(t, body.Errors, 1, tc.body)
		assert.Equal(t, tc.field, body.Errors[0].Field, tc.body)
		assert.Equal(t, tc.rule, body.Errors[0].Rule, tc.body)
	}
}
