package address

import (
	"context"

	"go.uber.org/zap"

	"contactbook/internal/core/validate"
	"contactbook/internal/domain"
	"contactbook/internal/feature/contact"
)

type Service struct {
	repo     domain.AddressRepository
	contacts *contact.Guard
	guard    *Guard
	log      *zap.Logger
}

func NewService(repo domain.AddressRepository, contacts *contact.Guard, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		contacts: contacts,
		guard:    NewGuard(contacts, repo),
		log:      log.Named("address"),
	}
}

func (s *Service) Create(ctx context.Context, u *domain.User, req CreateRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	if _, err := s.contacts.RequireContact(ctx, req.ContactID, u.Username); err != nil {
		return View{}, err
	}
	a := &domain.Address{
		ContactID:  req.ContactID,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return View{}, domain.Internal("create address", err)
	}
	s.log.Debug("address created", zap.Int64("contact", req.ContactID), zap.Int64("id", a.ID))
	return toView(a), nil
}

func (s *Service) Get(ctx context.Context, u *domain.User, req IDRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	a, err := s.guard.RequireAddress(ctx, req.AddressID, req.ContactID, u.Username)
	if err != nil {
		return View{}, err
	}
	return toView(a), nil
}

// Update country/postalCode 整体替换，可选字段只在出现时写入
func (s *Service) Update(ctx context.Context, u *domain.User, req UpdateRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	if _, err := s.guard.RequireAddress(ctx, req.ID, req.ContactID, u.Username); err != nil {
		return View{}, err
	}
	a, err := s.repo.Update(ctx, req.ID, req.ContactID, domain.AddressPatch{
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    &req.Country,
		PostalCode: &req.PostalCode,
	})
	if err != nil {
		return View{}, domain.Internal("update address", err)
	}
	if a == nil {
		return View{}, domain.NotFound("address is not found")
	}
	s.log.Debug("address updated", zap.Int64("contact", req.ContactID), zap.Int64("id", a.ID))
	return toView(a), nil
}

func (s *Service) Delete(ctx context.Context, u *domain.User, req IDRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	if _, err := s.guard.RequireAddress(ctx, req.AddressID, req.ContactID, u.Username); err != nil {
		return View{}, err
	}
	a, err := s.repo.Delete(ctx, req.AddressID, req.ContactID)
	if err != nil {
		return View{}, domain.Internal("delete address", err)
	}
	if a == nil {
		return View{}, domain.NotFound("address is not found")
	}
	s.log.Debug("address deleted", zap.Int64("contact", req.ContactID), zap.Int64("id", a.ID))
	return toView(a), nil
}

// List 某个联系人下的全部地址，按 id 升序
func (s *Service) List(ctx context.Context, u *domain.User, req ListRequest) ([]View, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.contacts.RequireContact(ctx, req.ContactID, u.Username); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByContact(ctx, req.ContactID)
	if err != nil {
		return nil, domain.Internal("list addresses", err)
	}
	out := make([]View, 0, len(rows))
	for i := range rows {
		out = append(out, toView(&rows[i]))
	}
	return out, nil
}
