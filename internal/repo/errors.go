package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDupKey TranslateError 打开时优先走 gorm.ErrDuplicatedKey，兜底按驱动报文判断
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// likeContains 大小写不敏感的子串匹配参数；! 为转义符，与 SQL 中的 ESCAPE '!' 对应
func likeContains(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
