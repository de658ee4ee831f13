package utils

import "github.com/google/uuid"

// NewToken 随机 UUIDv4（crypto/rand），用作不透明会话令牌
func NewToken() string { return uuid.NewString() }
