package response

import "contactbook/internal/domain"

type Resp struct {
	Code   int                 `json:"code"`
	Msg    string              `json:"msg"`
	Data   interface{}         `json:"data"`
	Errors []domain.FieldError `json:"errors,omitempty"`
	Paging *domain.Paging      `json:"paging,omitempty"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Paged 列表 + 分页信息
func Paged(items interface{}, p domain.Paging) Resp {
	r := OK(items)
	r.Paging = &p
	return r
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Invalid 校验失败，逐字段列出
func Invalid(msg string, fields []domain.FieldError) Resp {
	r := Error(CodeBadRequest, msg)
	r.Errors = fields
	return r
}
