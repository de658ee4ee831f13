package address

type CreateRequest struct {
	ContactID  int64   `json:"contactId"  validate:"gt=0"`
	Street     *string `json:"street"     validate:"omitnil,min=1,max=255"`
	City       *string `json:"city"       validate:"omitnil,min=1,max=100"`
	Province   *string `json:"province"   validate:"omitnil,min=1,max=100"`
	Country    string  `json:"country"    validate:"required,min=1,max=100"`
	PostalCode string  `json:"postalCode" validate:"required,min=1,max=100"`
}

// UpdateRequest ID/ContactID 来自路径参数
type UpdateRequest struct {
	ID         int64   `json:"addressId"  validate:"gt=0"`
	ContactID  int64   `json:"contactId"  validate:"gt=0"`
	Street     *string `json:"street"     validate:"omitnil,min=1,max=255"`
	City       *string `json:"city"       validate:"omitnil,min=1,max=100"`
	Province   *string `json:"province"   validate:"omitnil,min=1,max=100"`
	Country    string  `json:"country"    validate:"required,min=1,max=100"`
	PostalCode string  `json:"postalCode" validate:"required,min=1,max=100"`
}

type IDRequest struct {
	ContactID int64 `json:"contactId" validate:"gt=0"`
	AddressID int64 `json:"addressId" validate:"gt=0"`
}

type ListRequest struct {
	ContactID int64 `json:"contactId" validate:"gt=0"`
}
