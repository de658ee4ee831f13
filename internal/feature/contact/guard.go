package contact

import (
	"context"

	"contactbook/internal/domain"
)

// Guard 按 (id, owner) 取联系人；别人的和不存在的一律 NotFound
type Guard struct {
	repo domain.ContactRepository
}

func NewGuard(repo domain.ContactRepository) *Guard { return &Guard{repo: repo} }

func (g *Guard) RequireContact(ctx context.Context, contactID int64, owner string) (*domain.Contact, error) {
	c, err := g.repo.FindByIDAndOwner(ctx, contactID, owner)
	if err != nil {
		return nil, domain.Internal("find contact", err)
	}
	if c == nil {
		return nil, domain.NotFound("contact is not found")
	}
	return c, nil
}
