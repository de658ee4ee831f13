package domain

import (
	"context"
	"time"
)

// Contact 归属由 Username 决定，所有读写都必须带上它
type Contact struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:100;not null;index" json:"-"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  *string   `gorm:"size:100" json:"lastName,omitempty"`
	Email     *string   `gorm:"size:100" json:"email,omitempty"`
	Phone     *string   `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Addresses []Address `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Contact) TableName() string { return "contacts" }

type ContactPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// ContactFilter 查询谓词集合；Owner 恒生效，其余为空则忽略
type ContactFilter struct {
	Owner string
	Name  string // first_name OR last_name
	Email string
	Phone string
}

// 约定同 UserRepository：查无此行返回 (nil, nil)
type ContactRepository interface {
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	Update(ctx context.Context, id int64, owner string, p ContactPatch) (*Contact, error)
	// Delete 返回删除前的行
	Delete(ctx context.Context, id int64, owner string) (*Contact, error)
	Count(ctx context.Context, f ContactFilter) (int64, error)
	List(ctx context.Context, f ContactFilter, limit, offset int) ([]Contact, error)
}
