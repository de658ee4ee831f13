package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"contactbook/internal/core/auth"
	"contactbook/internal/domain"
	"contactbook/internal/feature/address"
	"contactbook/internal/feature/contact"
	"contactbook/internal/feature/user"
	"contactbook/internal/repo"
	"contactbook/internal/testutil"
)

type envelope struct {
	Code   int                 `json:"code"`
	Msg    string              `json:"msg"`
	Data   json.RawMessage     `json:"data"`
	Errors []domain.FieldError `json:"errors"`
	Paging *domain.Paging      `json:"paging"`
}

type app struct {
	t     *testing.T
	api   *gin.Engine
	admin *gin.Engine
	jwt   *auth.JWTer
}

func newApp(t *testing.T) *app {
	t.Helper()
	db := testutil.NewDB(t)
	l := zap.NewNop()

	users := repo.NewUserRepo(db)
	userSvc := user.NewService(users, auth.Bcrypt{Cost: bcrypt.MinCost}, auth.UUIDTokens{}, nil, l)
	contactSvc := contact.NewService(repo.NewContactRepo(db), l)
	addressSvc := address.NewService(repo.NewAddressRepo(db), contactSvc.Guard(), l)

	reg := NewRegistry(
		address.NewModule(addressSvc, l),
		contact.NewModule(contactSvc, l),
		user.NewModule(userSvc, l),
		user.NewAdminModule(userSvc, l),
	)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Minute}
	o := Options{Mode: gin.TestMode, MaxBodyBytes: 1 << 20, RequestTimeout: 5 * time.Second}

	return &app{
		t:     t,
		api:   NewAPIEngine(l, o, user.NewResolver(users, nil, 0), reg),
		admin: NewAdminEngine(l, o, jwter, reg),
		jwt:   jwter,
	}
}

func (a *app) do(h http.Handler, method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *app) call(method, path, token string, body any) (int, envelope) {
	return a.do(a.api, method, path, token, body)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// login 注册并登录，返回令牌
func (a *app) login(username string) string {
	a.t.Helper()
	code, _ := a.call(http.MethodPost, "/api/v1/users", "", gin.H{"username": username, "password": "secret", "name": username})
	require.Equal(a.t, http.StatusOK, code)
	code, env := a.call(http.MethodPost, "/api/v1/users/login", "", gin.H{"username": username, "password": "secret"})
	require.Equal(a.t, http.StatusOK, code)
	v := decode[user.View](a.t, env.Data)
	require.NotNil(a.t, v.Token)
	return *v.Token
}

func TestHealthAndNoRoute(t *testing.T) {
	a := newApp(t)
	w := httptest.NewRecorder()
	a.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	code, env := a.call(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 404, env.Code)

	w = httptest.NewRecorder()
	a.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `contactbook_http_requests_total{method="GET",path="/health",status="200"}`)
	assert.Contains(t, w.Body.String(), `path="unmatched"`)
}

func TestHealthReportsDependencyFailure(t *testing.T) {
	r := NewAPIEngine(zap.NewNop(), Options{
		Mode:   gin.TestMode,
		Health: func(context.Context) error { return errors.New("db down") },
	}, user.NewResolver(nil, nil, 0), NewRegistry())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUserFlow(t *testing.T) {
	a := newApp(t)

	code, env := a.call(http.MethodPost, "/api/v1/users", "", gin.H{"username": "", "password": "", "name": ""})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, env.Errors, 3)

	token := a.login("alice")

	code, _ = a.call(http.MethodPost, "/api/v1/users", "", gin.H{"username": "alice", "password": "x", "name": "x"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = a.call(http.MethodPost, "/api/v1/users/login", "", gin.H{"username": "alice", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = a.call(http.MethodGet, "/api/v1/users/current", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, user.View{Username: "alice", Name: "alice"}, decode[user.View](t, env.Data))

	code, env = a.call(http.MethodPatch, "/api/v1/users/current", token, gin.H{"name": "Alice Liddell"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alice Liddell", decode[user.View](t, env.Data).Name)

	code, _ = a.call(http.MethodDelete, "/api/v1/users/current", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = a.call(http.MethodGet, "/api/v1/users/current", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, 401, env.Code)

	code, _ = a.call(http.MethodGet, "/api/v1/users/current", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestContactFlow(t *testing.T) {
	a := newApp(t)
	alice := a.login("alice")
	bob := a.login("bob")

	code, env := a.call(http.MethodPost, "/api/v1/contacts", alice, gin.H{
		"firstName": "Alice", "lastName": "Liddell", "phone": "0811111",
	})
	require.Equal(t, http.StatusOK, code)
	c := decode[contact.View](t, env.Data)
	require.NotZero(t, c.ID)
	path := fmt.Sprintf("/api/v1/contacts/%d", c.ID)

	code, env = a.call(http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, c, decode[contact.View](t, env.Data))

	code, foreign := a.call(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, missing := a.call(http.MethodGet, "/api/v1/contacts/999999", bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, missing.Msg, foreign.Msg)

	code, env = a.call(http.MethodGet, "/api/v1/contacts/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "contactId", env.Errors[0].Field)

	code, env = a.call(http.MethodPut, path, alice, gin.H{"firstName": "Alicia", "email": "alicia@example.com"})
	require.Equal(t, http.StatusOK, code)
	upd := decode[contact.View](t, env.Data)
	assert.Equal(t, "Alicia", upd.FirstName)
	assert.Equal(t, "Liddell", *upd.LastName)

	code, env = a.call(http.MethodPost, "/api/v1/contacts", alice, gin.H{"firstName": 42})
	require.Equal(t, http.StatusBadRequest, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "type", env.Errors[0].Rule)

	code, _ = a.call(http.MethodPost, "/api/v1/contacts", alice, "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.call(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.call(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.call(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestContactSearch(t *testing.T) {
	a := newApp(t)
	alice := a.login("alice")

	for i := 0; i < 12; i++ {
		code, _ := a.call(http.MethodPost, "/api/v1/contacts", alice, gin.H{"firstName": fmt.Sprintf("Friend %02d", i)})
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := a.call(http.MethodPost, "/api/v1/contacts", alice, gin.H{"firstName": "Alice", "phone": "0811111"})
	require.Equal(t, http.StatusOK, code)

	// 默认 page=1 size=10
	code, env := a.call(http.MethodGet, "/api/v1/contacts", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]contact.View](t, env.Data), 10)
	require.NotNil(t, env.Paging)
	assert.Equal(t, domain.Paging{CurrentPage: 1, Size: 10, TotalPage: 2}, *env.Paging)

	code, env = a.call(http.MethodGet, "/api/v1/contacts?name=lic", alice, nil)
	require.Equal(t, http.StatusOK, code)
	items := decode[[]contact.View](t, env.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "Alice", items[0].FirstName)

	code, env = a.call(http.MethodGet, "/api/v1/contacts?phone=08222", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]contact.View](t, env.Data))
	assert.Equal(t, 0, env.Paging.TotalPage)

	code, env = a.call(http.MethodGet, "/api/v1/contacts?page=5&size=5", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]contact.View](t, env.Data))
	assert.Equal(t, domain.Paging{CurrentPage: 5, Size: 5, TotalPage: 3}, *env.Paging)

	code, env = a.call(http.MethodGet, "/api/v1/contacts?page=0", alice, nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "page", env.Errors[0].Field)

	code, _ = a.call(http.MethodGet, "/api/v1/contacts?size=abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAddressFlow(t *testing.T) {
	a := newApp(t)
	alice := a.login("alice")
	bob := a.login("bob")

	mk := func(name string) int64 {
		code, env := a.call(http.MethodPost, "/api/v1/contacts", alice, gin.H{"firstName": name})
		require.Equal(t, http.StatusOK, code)
		return decode[contact.View](t, env.Data).ID
	}
	c1, c2 := mk("One"), mk("Two")
	base := fmt.Sprintf("/api/v1/contacts/%d/addresses", c2)

	code, env := a.call(http.MethodPost, base, alice, gin.H{"city": "Jakarta"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, env.Errors, 2)

	code, env = a.call(http.MethodPost, base, alice, gin.H{"city": "Jakarta", "country": "Indonesia", "postalCode": "10110"})
	require.Equal(t, http.StatusOK, code)
	addr := decode[address.View](t, env.Data)

	code, _ = a.call(http.MethodGet, fmt.Sprintf("%s/%d", base, addr.ID), alice, nil)
	assert.Equal(t, http.StatusOK, code)

	// 地址挂在 c2 下，经 c1 访问不可见
	code, _ = a.call(http.MethodGet, fmt.Sprintf("/api/v1/contacts/%d/addresses/%d", c1, addr.ID), alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.call(http.MethodGet, fmt.Sprintf("%s/%d", base, addr.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.call(http.MethodGet, base, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.call(http.MethodPut, fmt.Sprintf("%s/%d", base, addr.ID), alice, gin.H{"country": "Indonesia", "postalCode": "10220"})
	require.Equal(t, http.StatusOK, code)
	upd := decode[address.View](t, env.Data)
	assert.Equal(t, "10220", upd.PostalCode)
	assert.Equal(t, "Jakarta", *upd.City)

	code, env = a.call(http.MethodGet, base, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []address.View{upd}, decode[[]address.View](t, env.Data))

	code, _ = a.call(http.MethodDelete, fmt.Sprintf("%s/%d", base, addr.ID), alice, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = a.call(http.MethodGet, base, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]address.View](t, env.Data))
}

func TestAdminSurface(t *testing.T) {
	a := newApp(t)
	bobToken := a.login("bob")
	a.login("alice")

	code, _ := a.do(a.admin, http.MethodGet, "/admin/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	userJWT, err := a.jwt.Issue("someone", "user")
	require.NoError(t, err)
	code, _ = a.do(a.admin, http.MethodGet, "/admin/v1/users", "Bearer "+userJWT, nil)
	assert.Equal(t, http.StatusForbidden, code)

	opJWT, err := a.jwt.Issue("ops", "admin")
	require.NoError(t, err)
	code, env := a.do(a.admin, http.MethodGet, "/admin/v1/users?q=bo", "Bearer "+opJWT, nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[user.ListResult](t, env.Data)
	require.EqualValues(t, 1, list.Total)
	assert.True(t, list.Items[0].LoggedIn)

	code, _ = a.do(a.admin, http.MethodPost, "/admin/v1/users/bob/revoke", "Bearer "+opJWT, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = a.call(http.MethodGet, "/api/v1/users/current", bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(a.admin, http.MethodPost, "/admin/v1/users/ghost/revoke", "Bearer "+opJWT, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRegistryOrdersByPriority(t *testing.T) {
	var order []string
	reg := NewRegistry(
		fakeModule{name: "late", prio: 50, order: &order},
		fakeModule{name: "default", prio: -1, order: &order},
		fakeModule{name: "early", prio: 1, order: &order},
	)
	g := gin.New().Group("/")
	reg.MountAPI(g, g)
	assert.Equal(t, []string{"early", "late", "default"}, order)
}

type fakeModule struct {
	name  string
	prio  int
	order *[]string
}

func (f fakeModule) MountAPI(_, _ *gin.RouterGroup) { *f.order = append(*f.order, f.name) }

func (f fakeModule) Priority() int {
	if f.prio < 0 {
		return 100
	}
	return f.prio
}
