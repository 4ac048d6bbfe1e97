package auth

import "golang.org/x/crypto/bcrypt"

// bcryptのコスト。12未満には下げない。
const bcryptCost = 12

// パスワードは必ずハッシュ化して保存（平文保存しない）
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ハッシュと平文の照合
func ComparePassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
