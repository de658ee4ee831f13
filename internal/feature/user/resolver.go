package user

import (
	"context"
	"time"

	"contactbook/internal/core/cache"
	"contactbook/internal/domain"
)

// sessionEntry 缓存里只放投影需要的字段，口令摘要不进缓存
type sessionEntry struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

func sessionKey(token string) string { return "session:" + token }

// Resolver 不透明令牌 -> 用户。令牌无过期，直到被新登录覆盖或注销
type Resolver struct {
	repo  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

// NewResolver c 为 nil 时每次直接查库
func NewResolver(repo domain.UserRepository, c *cache.Cache, ttl time.Duration) *Resolver {
	return &Resolver{repo: repo, cache: c, ttl: ttl}
}

func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthenticated("unauthorized")
	}
	if r.cache == nil {
		return r.lookup(ctx, token)
	}

	e, err := cache.GetOrLoadJSON(r.cache, ctx, sessionKey(token), r.ttl, func(ctx context.Context) (*sessionEntry, error) {
		u, err := r.lookup(ctx, token)
		if err != nil {
			return nil, err
		}
		return &sessionEntry{Username: u.Username, Name: u.Name}, nil
	})
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.Unauthenticated("unauthorized")
	}
	return &domain.User{Username: e.Username, Name: e.Name, Token: &token}, nil
}

func (r *Resolver) lookup(ctx context.Context, token string) (*domain.User, error) {
	u, err := r.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, domain.Internal("resolve session", err)
	}
	if u == nil {
		return nil, domain.Unauthenticated("unauthorized")
	}
	return u, nil
}
