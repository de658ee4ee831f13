package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"contactbook/internal/domain"
)

type AddressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) *AddressRepo { return &AddressRepo{db: db} }

var _ domain.AddressRepository = (*AddressRepo)(nil)

func underContact(id, contactID int64) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ? AND contact_id = ?", id, contactID)
	}
}

func (r *AddressRepo) FindByIDAndContact(ctx context.Context, id, contactID int64) (*domain.Address, error) {
	var a domain.Address
	err := r.db.WithContext(ctx).Scopes(underContact(id, contactID)).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find address: %w", err)
	}
	return &a, nil
}

func (r *AddressRepo) Create(ctx context.Context, a *domain.Address) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

func (r *AddressRepo) Update(ctx context.Context, id, contactID int64, p domain.AddressPatch) (*domain.Address, error) {
	cols := map[string]any{}
	if p.Street != nil {
		cols["street"] = *p.Street
	}
	if p.City != nil {
		cols["city"] = *p.City
	}
	if p.Province != nil {
		cols["province"] = *p.Province
	}
	if p.Country != nil {
		cols["country"] = *p.Country
	}
	if p.PostalCode != nil {
		cols["postal_code"] = *p.PostalCode
	}

	var out *domain.Address
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cols) > 0 {
			if err := tx.Model(&domain.Address{}).Scopes(underContact(id, contactID)).Updates(cols).Error; err != nil {
				return err
			}
		}
		var a domain.Address
		if err := tx.Scopes(underContact(id, contactID)).Take(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return out, nil
}

func (r *AddressRepo) Delete(ctx context.Context, id, contactID int64) (*domain.Address, error) {
	var out *domain.Address
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Address
		if err := tx.Scopes(underContact(id, contactID)).Take(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Scopes(underContact(id, contactID)).Delete(&domain.Address{}).Error; err != nil {
			return err
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete address: %w", err)
	}
	return out, nil
}

func (r *AddressRepo) ListByContact(ctx context.Context, contactID int64) ([]domain.Address, error) {
	items := []domain.Address{}
	if err := r.db.WithContext(ctx).Where("contact_id = ?", contactID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return items, nil
}
