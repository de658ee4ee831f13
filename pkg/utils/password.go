package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost bcrypt 工作因子
const PasswordCost = 10

// bcrypt 只看前 72 字节，更长的口令按字节截断后再参与摘要
const passwordMaxBytes = 72

func clip(pw string) []byte {
	b := []byte(pw)
	if len(b) > passwordMaxBytes {
		b = b[:passwordMaxBytes]
	}
	return b
}

func HashPassword(pw string, cost int) (string, error) {
	if cost <= 0 {
		cost = PasswordCost
	}
	b, err := bcrypt.GenerateFromPassword(clip(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), clip(pw)) == nil
}
