package domain

import (
	"context"
	"time"
)

type Address struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ContactID  int64     `gorm:"not null;index" json:"-"`
	Street     *string   `gorm:"size:255" json:"street,omitempty"`
	City       *string   `gorm:"size:100" json:"city,omitempty"`
	Province   *string   `gorm:"size:100" json:"province,omitempty"`
	Country    string    `gorm:"size:100;not null" json:"country"`
	PostalCode string    `gorm:"size:100;not null" json:"postalCode"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (Address) TableName() string { return "addresses" }

type AddressPatch struct {
	Street     *string
	City       *string
	Province   *string
	Country    *string
	PostalCode *string
}

// AddressRepository 只按 contactId 过滤；联系人归属由上层 Guard 先行校验
type AddressRepository interface {
	FindByIDAndContact(ctx context.Context, id, contactID int64) (*Address, error)
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, id, contactID int64, p AddressPatch) (*Address, error)
	Delete(ctx context.Context, id, contactID int64) (*Address, error)
	ListByContact(ctx context.Context, contactID int64) ([]Address, error)
}
