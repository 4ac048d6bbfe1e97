package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/auth"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string, name string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

// トークンと本人情報のセット
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	validator AuthValidator
	log       *logrus.Logger
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	validator AuthValidator,
	log *logrus.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		validator: validator,
		log:       log,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, in.Email, in.Password, in.Name); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := auth.HashPassword(in.Password)
	if err != nil {
		u.log.WithError(err).Error("password hash failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: pwHash,
		Name:         strings.TrimSpace(in.Name),
		Role:         model.RoleCustomer,
	}

	//保存。validatorの重複チェックとuniqueインデックスの二段構え
	if err := u.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, NewHTTPError(http.StatusBadRequest, "email already registered")
		}
		u.log.WithError(err).Error("user create failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, err := auth.IssueToken(u.cfg.JWTSecret, user, time.Now())
	if err != nil {
		u.log.WithError(err).Error("token issue failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthResult{Token: token, User: toUserDTO(user)}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//「emailが存在しない」と「パスワードが違う」は同じエラーにする（列挙対策）
	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		u.log.WithError(err).Error("user lookup failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !auth.ComparePassword(user.PasswordHash, in.Password) {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := auth.IssueToken(u.cfg.JWTSecret, user, time.Now())
	if err != nil {
		u.log.WithError(err).Error("token issue failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthResult{Token: token, User: toUserDTO(user)}, nil
}

// Me は検証済みIdentityの本人情報を返す
func (u *AuthUsecase) Me(ctx context.Context, ident auth.Identity) (*UserDTO, error) {
	if !ident.Authenticated() {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, ident.UserID)
	if err != nil {
		u.log.WithError(err).Error("user lookup failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}
