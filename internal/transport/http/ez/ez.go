// Package ez 把「绑定 -> 调用服务 -> 渲染」收敛成一行注册。
package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactbook/internal/core/validate"
	"contactbook/internal/domain"
	mdw "contactbook/internal/transport/http/middleware"
	resp "contactbook/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ {
	if log == nil {
		log = zap.NewNop()
	}
	return EZ{g: g, log: log}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action I 入参，O 出参；路径参数由 Handler 自行合并进 in
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

// paged 分页结果（domain.Page）拆成 data + paging
type paged interface {
	Envelope() (any, domain.Paging)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			Fail(c, e.log, bindError(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		if p, ok := any(out).(paged); ok {
			items, paging := p.Envelope()
			c.JSON(http.StatusOK, resp.Paged(items, paging))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// Status 错误分类 -> HTTP 状态码
func Status(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail 统一错误渲染；500 只回通用文案，细节进日志
func Fail(c *gin.Context, log *zap.Logger, err error) {
	kind := domain.KindOf(err)
	status := Status(kind)
	switch kind {
	case domain.KindValidation:
		var de *domain.Error
		msg := "validation failed"
		if errors.As(err, &de) && de.Msg != "" {
			msg = de.Msg
		}
		c.AbortWithStatusJSON(status, resp.Invalid(msg, domain.FieldsOf(err)))
	case domain.KindInternal:
		if errors.Is(err, context.DeadlineExceeded) {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, resp.Error(resp.CodeTimeout, "timeout"))
			return
		}
		log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, resp.Error(resp.CodeServerError, ""))
	default:
		c.AbortWithStatusJSON(status, resp.Error(status, err.Error()))
	}
}

// PathID 解析数字型路径参数；非数字按校验失败处理，<=0 交给服务层校验
func PathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, validate.Field(name, "number", name+" must be a number")
	}
	return id, nil
}

// User 取 AuthSession 放进上下文的用户
func User(c *gin.Context) (*domain.User, error) {
	u := mdw.CurrentUser(c)
	if u == nil {
		return nil, domain.Unauthenticated("unauthorized")
	}
	return u, nil
}

// bindError 绑定失败（类型不匹配、JSON 损坏、超限）统一转成校验错误
func bindError(err error) error {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return validate.Field(field, "type", fmt.Sprintf("%s must be a %s", field, typeErr.Type.Kind()))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return validate.Field("body", "json", "request body is not valid JSON")
	case errors.Is(err, io.EOF):
		return validate.Field("body", "required", "request body is required")
	case errors.As(err, &tooLarge):
		return validate.Field("body", "max", "request body too large")
	case errors.As(err, &numErr):
		return validate.Field("query", "number", fmt.Sprintf("%q is not a number", numErr.Num))
	default:
		return validate.Field("body", "bind", err.Error())
	}
}
