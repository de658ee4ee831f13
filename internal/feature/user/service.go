package user

import (
	"context"

	"go.uber.org/zap"

	"contactbook/internal/core/auth"
	"contactbook/internal/core/cache"
	"contactbook/internal/core/validate"
	"contactbook/internal/domain"
)

type Service struct {
	repo   domain.UserRepository
	hasher auth.Hasher
	tokens auth.TokenIssuer
	cache  *cache.Cache
	log    *zap.Logger
}

// NewService c 为会话缓存，可为 nil；凡是改变令牌解析结果的写操作都会失效对应 key
func NewService(repo domain.UserRepository, hasher auth.Hasher, tokens auth.TokenIssuer, c *cache.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, hasher: hasher, tokens: tokens, cache: c, log: log.Named("user")}
}

// Register 先查重；并发注册时由主键冲突兜底，同样是 Conflict
func (s *Service) Register(ctx context.Context, req RegisterRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	existing, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return View{}, domain.Internal("find user", err)
	}
	if existing != nil {
		return View{}, domain.Conflict("username already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return View{}, domain.Internal("hash password", err)
	}
	u := &domain.User{Username: req.Username, Name: req.Name, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return View{}, domain.Internal("create user", err)
	}
	s.log.Debug("user registered", zap.String("user", u.Username))
	return toView(u), nil
}

// Login 用户不存在与口令错误返回同一个错误
func (s *Service) Login(ctx context.Context, req LoginRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return View{}, domain.Internal("find user", err)
	}
	if u == nil || !s.hasher.Verify(req.Password, u.PasswordHash) {
		return View{}, domain.Unauthenticated("username or password is wrong")
	}

	// 单会话：新令牌直接覆盖旧令牌
	token := s.tokens.IssueToken()
	updated, err := s.repo.Update(ctx, u.Username, domain.UserPatch{Token: &token})
	if err != nil {
		return View{}, domain.Internal("store token", err)
	}
	if updated == nil {
		return View{}, domain.Unauthenticated("username or password is wrong")
	}
	s.forget(ctx, u.Token)
	s.log.Debug("user logged in", zap.String("user", u.Username))

	v := toView(updated)
	v.Token = &token
	return v, nil
}

func (s *Service) Current(_ context.Context, u *domain.User) View {
	return toView(u)
}

// Update 只改出现的字段；口令重新摘要
func (s *Service) Update(ctx context.Context, u *domain.User, req UpdateRequest) (View, error) {
	if err := validate.Struct(req); err != nil {
		return View{}, err
	}
	patch := domain.UserPatch{Name: req.Name}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return View{}, domain.Internal("hash password", err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, u.Username, patch)
	if err != nil {
		return View{}, domain.Internal("update user", err)
	}
	if updated == nil {
		return View{}, domain.NotFound("user is not found")
	}
	if !patch.Empty() {
		s.forget(ctx, updated.Token)
	}
	s.log.Debug("user updated", zap.String("user", u.Username))
	return toView(updated), nil
}

// Logout 清空令牌，之后该令牌解析失败
func (s *Service) Logout(ctx context.Context, u *domain.User) (View, error) {
	updated, err := s.repo.Update(ctx, u.Username, domain.UserPatch{ClearToken: true})
	if err != nil {
		return View{}, domain.Internal("clear token", err)
	}
	if updated == nil {
		return View{}, domain.NotFound("user is not found")
	}
	s.forget(ctx, u.Token)
	s.log.Debug("user logged out", zap.String("user", u.Username))
	return toView(updated), nil
}

// Revoke 运维强制下线
func (s *Service) Revoke(ctx context.Context, username string) (View, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return View{}, domain.Internal("find user", err)
	}
	if u == nil {
		return View{}, domain.NotFound("user is not found")
	}
	return s.Logout(ctx, u)
}

func (s *Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	if err := validate.Struct(req); err != nil {
		return ListResult{}, err
	}
	users, total, err := s.repo.List(ctx, domain.UserFilter{Query: req.Query, Offset: req.Offset, Limit: req.Limit})
	if err != nil {
		return ListResult{}, domain.Internal("list users", err)
	}
	out := ListResult{Total: total, Items: make([]AdminView, 0, len(users))}
	for _, u := range users {
		out.Items = append(out.Items, AdminView{
			Username:  u.Username,
			Name:      u.Name,
			LoggedIn:  u.Token != nil,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

// forget 缓存失效失败只告警：令牌在库里已经改写
func (s *Service) forget(ctx context.Context, token *string) {
	if s.cache == nil || token == nil || *token == "" {
		return
	}
	if err := s.cache.Delete(ctx, sessionKey(*token)); err != nil {
		s.log.Warn("session cache invalidate failed", zap.Error(err))
	}
}
