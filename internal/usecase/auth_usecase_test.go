package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/auth"
	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
)

// UserRepositoryのインメモリ実装。uniqueインデックスと同じ重複エラーを返す。
type memUsers struct {
	byEmail map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*model.User{}}
}

func (m *memUsers) Create(ctx context.Context, u *model.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repo.ErrDuplicate
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func newAuthUC(users repo.UserRepository) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test-secret"}
	return usecase.NewAuthUsecase(cfg, users, validator.NewAuthValidator(users), testLogger())
}

func TestRegister_Success(t *testing.T) {
	users := newMemUsers()
	uc := newAuthUC(users)

	res, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "secret123",
		Name:     "Taro",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "taro@example.com", res.User.Email)
	assert.Equal(t, string(model.RoleCustomer), res.User.Role)

	//平文パスワードは保存されない
	stored := users.byEmail["taro@example.com"]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, auth.ComparePassword(stored.PasswordHash, "secret123"))
}

func TestRegister_TokenIsVerifiable(t *testing.T) {
	uc := newAuthUC(newMemUsers())

	res, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "secret123",
		Name:     "Taro",
	})
	assert.NoError(t, err)

	ident, ok := auth.VerifyToken("test-secret", res.Token)
	assert.True(t, ok)
	assert.Equal(t, res.User.ID, ident.UserID)
	assert.Equal(t, model.RoleCustomer, ident.Role)
}

func TestRegister_ValidationErrors(t *testing.T) {
	uc := newAuthUC(newMemUsers())
	ctx := context.Background()

	cases := []struct {
		name    string
		in      usecase.RegisterInput
		message string
	}{
		{"empty email", usecase.RegisterInput{Password: "secret123", Name: "Taro"}, "invalid input"},
		{"empty password", usecase.RegisterInput{Email: "a@x.com", Name: "Taro"}, "invalid input"},
		{"bad email", usecase.RegisterInput{Email: "not-an-email", Password: "secret123", Name: "Taro"}, "invalid email address"},
		{"short password", usecase.RegisterInput{Email: "a@x.com", Password: "12345", Name: "Taro"}, "password must be at least 6 characters"},
		{"short name", usecase.RegisterInput{Email: "a@x.com", Password: "secret123", Name: "T"}, "name must be at least 2 characters"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := uc.Register(ctx, c.in)
			assertHTTPError(t, err, http.StatusBadRequest, c.message)
		})
	}
}

func TestRegister_PasswordBoundary(t *testing.T) {
	uc := newAuthUC(newMemUsers())

	//ちょうど6文字は通る
	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "boundary@example.com",
		Password: "123456",
		Name:     "Taro",
	})
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newMemUsers()
	uc := newAuthUC(users)
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "first-password",
		Name:     "Taro",
	})
	assert.NoError(t, err)

	//同じemailで再登録は拒否
	_, err = uc.Register(ctx, usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "second-password",
		Name:     "Impostor",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "email already registered")

	//元の資格情報は生きている
	res, err := uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "first-password"})
	assert.NoError(t, err)
	assert.Equal(t, "Taro", res.User.Name)

	_, err = uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "second-password"})
	assertHTTPError(t, err, http.StatusUnauthorized, "invalid credentials")
}

func TestLogin_Success(t *testing.T) {
	users := newMemUsers()
	uc := newAuthUC(users)
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "secret123",
		Name:     "Taro",
	})
	assert.NoError(t, err)

	res, err := uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "secret123"})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "taro@example.com", res.User.Email)
}

// 未知のemailとパスワード違いは同じ応答（ユーザ列挙をさせない）
func TestLogin_UniformInvalidCredentials(t *testing.T) {
	users := newMemUsers()
	uc := newAuthUC(users)
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "secret123",
		Name:     "Taro",
	})
	assert.NoError(t, err)

	_, errUnknown := uc.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	_, errWrongPw := uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "wrong-password"})

	assertHTTPError(t, errUnknown, http.StatusUnauthorized, "invalid credentials")
	assertHTTPError(t, errWrongPw, http.StatusUnauthorized, "invalid credentials")

	heA, _ := usecase.AsHTTPError(errUnknown)
	heB, _ := usecase.AsHTTPError(errWrongPw)
	assert.Equal(t, heA.Message, heB.Message)
}

func TestLogin_ValidationErrors(t *testing.T) {
	uc := newAuthUC(newMemUsers())
	ctx := context.Background()

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "", Password: "x"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid input")

	_, err = uc.Login(ctx, usecase.LoginInput{Email: "not-an-email", Password: "x"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid email address")
}

func TestMe(t *testing.T) {
	users := newMemUsers()
	uc := newAuthUC(users)
	ctx := context.Background()

	res, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "secret123",
		Name:     "Taro",
	})
	assert.NoError(t, err)

	ident := auth.Identity{UserID: res.User.ID, Email: res.User.Email, Role: model.RoleCustomer}
	me, err := uc.Me(ctx, ident)
	assert.NoError(t, err)
	assert.Equal(t, "Taro", me.Name)

	_, err = uc.Me(ctx, auth.Identity{})
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")

	//トークンは有効だがユーザが消えている場合も401
	_, err = uc.Me(ctx, auth.Identity{UserID: "gone", Email: "g@x.com", Role: model.RoleCustomer})
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")
}
