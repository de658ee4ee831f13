package address

import (
	"context"

	"contactbook/internal/domain"
	"contactbook/internal/feature/contact"
)

// Guard 地址访问两级校验：先 contact 归属，再 address 归属 contact
type Guard struct {
	contacts *contact.Guard
	repo     domain.AddressRepository
}

func NewGuard(contacts *contact.Guard, repo domain.AddressRepository) *Guard {
	return &Guard{contacts: contacts, repo: repo}
}

func (g *Guard) RequireAddress(ctx context.Context, addressID, contactID int64, owner string) (*domain.Address, error) {
	if _, err := g.contacts.RequireContact(ctx, contactID, owner); err != nil {
		return nil, err
	}
	a, err := g.repo.FindByIDAndContact(ctx, addressID, contactID)
	if err != nil {
		return nil, domain.Internal("find address", err)
	}
	if a == nil {
		return nil, domain.NotFound("address is not found")
	}
	return a, nil
}
