package user

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=100"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=100"`
}

// UpdateRequest 未出现的字段保持不变；出现但为空会被 min=1 拒绝
type UpdateRequest struct {
	Name     *string `json:"name"     validate:"omitnil,min=1,max=100"`
	Password *string `json:"password" validate:"omitnil,min=1,max=100"`
}

// ListRequest 运维后台用户列表
type ListRequest struct {
	Query  string `form:"q"                 json:"q"`
	Offset int    `form:"offset,default=0"  json:"offset" validate:"gte=0"`
	Limit  int    `form:"limit,default=20"  json:"limit"  validate:"gte=1,lte=100"`
}
