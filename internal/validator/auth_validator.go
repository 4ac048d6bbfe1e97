package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"app/internal/repository"
	"app/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// email形式が不正
	ErrInvalidEmail = errors.New("invalid email address")

	// パスワードが短い（6文字未満）
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// 名前が短い（2文字未満）
	ErrNameTooShort = errors.New("name must be at least 2 characters")

	// emailが既に使用済み
	ErrEmailAlreadyUsed = errors.New("email already registered")
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string, name string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return ErrInvalidEmail
	}

	// パスワード最低文字数
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	// 表示名の最低文字数
	if len(strings.TrimSpace(name)) < 2 {
		return ErrNameTooShort
	}

	// email重複チェック（DBが必要）。uniqueインデックスが最終防壁
	u, err := v.users.FindByEmail(ctx, email)
	if err == nil && u != nil {
		return ErrEmailAlreadyUsed
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return ErrInvalidEmail
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
