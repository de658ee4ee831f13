package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"contactbook/internal/domain"
)

type ContactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) *ContactRepo { return &ContactRepo{db: db} }

var _ domain.ContactRepository = (*ContactRepo)(nil)

// owned 每条联系人查询都带 (id, username)
func owned(id int64, owner string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ? AND username = ?", id, owner)
	}
}

// matching 把 ContactFilter 渲染成 AND 连接的谓词
func matching(f domain.ContactFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("username = ?", f.Owner)
		if f.Name != "" {
			like := likeContains(f.Name)
			q = q.Where("(LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!')", like, like)
		}
		if f.Email != "" {
			q = q.Where("LOWER(email) LIKE ? ESCAPE '!'", likeContains(f.Email))
		}
		if f.Phone != "" {
			q = q.Where("LOWER(phone) LIKE ? ESCAPE '!'", likeContains(f.Phone))
		}
		return q
	}
}

func (r *ContactRepo) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.WithContext(ctx).Scopes(owned(id, owner)).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *ContactRepo) Update(ctx context.Context, id int64, owner string, p domain.ContactPatch) (*domain.Contact, error) {
	cols := map[string]any{}
	if p.FirstName != nil {
		cols["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		cols["last_name"] = *p.LastName
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}

	var out *domain.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cols) > 0 {
			if err := tx.Model(&domain.Contact{}).Scopes(owned(id, owner)).Updates(cols).Error; err != nil {
				return err
			}
		}
		var c domain.Contact
		if err := tx.Scopes(owned(id, owner)).Take(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		out = &c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return out, nil
}

// Delete 地址由外键 ON DELETE CASCADE 级联删除
func (r *ContactRepo) Delete(ctx context.Context, id int64, owner string) (*domain.Contact, error) {
	var out *domain.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Contact
		if err := tx.Scopes(owned(id, owner)).Take(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Scopes(owned(id, owner)).Delete(&domain.Contact{}).Error; err != nil {
			return err
		}
		out = &c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return out, nil
}

func (r *ContactRepo) Count(ctx context.Context, f domain.ContactFilter) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Contact{}).Scopes(matching(f)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// List 按 id 升序，保证分页稳定
func (r *ContactRepo) List(ctx context.Context, f domain.ContactFilter, limit, offset int) ([]domain.Contact, error) {
	items := []domain.Contact{}
	err := r.db.WithContext(ctx).
		Scopes(matching(f)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return items, nil
}
