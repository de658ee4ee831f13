package domain

import (
	"context"
	"time"
)

type User struct {
	Username     string    `gorm:"primaryKey;size:100" json:"username"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Token        *string   `gorm:"uniqueIndex;size:100" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Contacts []Contact `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// UserPatch 部分更新：nil 字段保持不变
type UserPatch struct {
	Name         *string
	PasswordHash *string
	// Token 非 nil 时写入 *Token；ClearToken 为 true 时置 NULL
	Token      *string
	ClearToken bool
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.PasswordHash == nil && p.Token == nil && !p.ClearToken
}

type UserFilter struct {
	Query  string // username / name 模糊匹配
	Offset int
	Limit  int
}

// 约定：查无此行时返回 (nil, nil)，由调用方决定映射成哪种错误
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByToken(ctx context.Context, token string) (*User, error)
	// Update 返回写入后的行
	Update(ctx context.Context, username string, p UserPatch) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
}
