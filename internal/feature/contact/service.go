package contact

import (
	"context"

	"go.uber.org/zap"

	"contactbook/internal/core/validate"
	"contactbook/internal/domain"
)

// Service 每个操作依次为：校验 -> 归属 -> 读写存储 -> 投影
type Service struct {
	repo  domain.ContactRepository
	guard *Guard
	log   *zap.Logger
}

func NewService(repo domain.ContactRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, guard: NewGuard(repo), log: log.Named("contact")}
}

// Guard 地址服务复用同一个归属检查
func (s *Service) Guard() *Guard { return s.guard }

func (s *Service) Create(ctx context.Context, u *domain.User, req CreateRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	c := &domain.Contact{
		Username:  u.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return View{}, domain.Internal("create contact", err)
	}
	s.log.Debug("contact created", zap.String("user", u.Username), zap.Int64("id", c.ID))
	return toView(c), nil
}

func (s *Service) Get(ctx context.Context, u *domain.User, req IDRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	c, err := s.guard.RequireContact(ctx, req.ID, u.Username)
	if err != nil {
		return View{}, err
	}
	return toView(c), nil
}

// Update firstName 整体替换，可选字段只在出现时写入
func (s *Service) Update(ctx context.Context, u *domain.User, req UpdateRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	if _, err := s.guard.RequireContact(ctx, req.ID, u.Username); err != nil {
		return View{}, err
	}
	c, err := s.repo.Update(ctx, req.ID, u.Username, domain.ContactPatch{
		FirstName: &req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return View{}, domain.Internal("update contact", err)
	}
	if c == nil {
		// 检查之后被并发删除
		return View{}, domain.NotFound("contact is not found")
	}
	s.log.Debug("contact updated", zap.String("user", u.Username), zap.Int64("id", c.ID))
	return toView(c), nil
}

// Delete 返回删除前的行；地址由外键级联删除
func (s *Service) Delete(ctx context.Context, u *domain.User, req IDRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	if _, err := s.guard.RequireContact(ctx, req.ID, u.Username); err != nil {
		return View{}, err
	}
	c, err := s.repo.Delete(ctx, req.ID, u.Username)
	if err != nil {
		return View{}, domain.Internal("delete contact", err)
	}
	if c == nil {
		return View{}, domain.NotFound("contact is not found")
	}
	s.log.Debug("contact deleted", zap.String("user", u.Username), zap.Int64("id", c.ID))
	return toView(c), nil
}

// Search 页码越界返回空列表，paging 仍按真实总数计算
func (s *Service) Search(ctx context.Context, u *domain.User, req SearchRequest) (domain.Page[View], error) {
	if err := validate.Struct(req); err != nil {
		return domain.Page[View]{}, err
	}
	q := BuildSearch(u.Username, req)

	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return domain.Page[View]{}, domain.Internal("count contacts", err)
	}
	var rows []domain.Contact
	if !q.Beyond {
		rows, err = s.repo.List(ctx, q.Filter, q.Limit, q.Offset)
		if err != nil {
			return domain.Page[View]{}, domain.Internal("list contacts", err)
		}
	}

	items := make([]View, 0, len(rows))
	for i := range rows {
		items = append(items, toView(&rows[i]))
	}
	return domain.Page[View]{
		Items: items,
		Paging: domain.Paging{
			CurrentPage: req.Page,
			Size:        req.Size,
			TotalPage:   TotalPages(total, req.Size),
		},
	}, nil
}
