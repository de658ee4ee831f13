package auth

import "contactbook/pkg/utils"

// Hasher 单向口令摘要，可替换实现
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer 签发不透明会话令牌
type TokenIssuer interface {
	IssueToken() string
}

// Bcrypt 默认实现；Cost<=0 时使用 utils.PasswordCost
type Bcrypt struct{ Cost int }

func (b Bcrypt) Hash(plain string) (string, error) { return utils.HashPassword(plain, b.Cost) }
func (b Bcrypt) Verify(plain, digest string) bool  { return utils.CheckPassword(plain, digest) }

// UUIDTokens 令牌无结构、无过期，直到被覆盖或注销
type UUIDTokens struct{}

func (UUIDTokens) IssueToken() string { return utils.NewToken() }
