package contact

type CreateRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  *string `json:"lastName"  validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email"     validate:"omitnil,min=1,max=100"`
	Phone     *string `json:"phone"     validate:"omitnil,min=1,max=13"`
}

// UpdateRequest ID 来自路径参数，其余字段来自 body
type UpdateRequest struct {
	ID        int64   `json:"contactId" validate:"gt=0"`
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  *string `json:"lastName"  validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email"     validate:"omitnil,min=1,max=100"`
	Phone     *string `json:"phone"     validate:"omitnil,min=1,max=13"`
}

type IDRequest struct {
	ID int64 `json:"contactId" validate:"gt=0"`
}

type SearchRequest struct {
	Name  *string `form:"name"  json:"name"  validate:"omitnil,min=1"`
	Email *string `form:"email" json:"email" validate:"omitnil,min=1"`
	Phone *string `form:"phone" json:"phone" validate:"omitnil,min=1"`
	Page  int     `form:"page,default=1"  json:"page" validate:"gte=1"`
	Size  int     `form:"size,default=10" json:"size" validate:"gte=1"`
}
