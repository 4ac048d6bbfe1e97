package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/policy"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	log          *logrus.Logger
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository, log *logrus.Logger) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo, log: log}
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categoryRepo.List(ctx)
	if err != nil {
		u.log.WithError(err).Error("category list failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, ident auth.Identity, name string) (model.Category, error) {
	if !policy.Allowed(ident, policy.OpCategoryCreate) {
		return model.Category{}, NewHTTPError(http.StatusForbidden, "admin access required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		ID:   uuid.NewString(),
		Name: name,
	})
	if err == repo.ErrDuplicate {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		u.log.WithError(err).Error("category create failed")
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// 商品が参照しているカテゴリは消せない（restrict方針）。
// 判定と削除はrepo側の1文で行うので、間に商品作成が割り込む余地はない。
func (u *CategoryUsecase) DeleteCategory(ctx context.Context, ident auth.Identity, categoryID string) error {
	if !policy.Allowed(ident, policy.OpCategoryDelete) {
		return NewHTTPError(http.StatusForbidden, "admin access required")
	}
	if categoryID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	err := u.categoryRepo.Delete(ctx, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err == repo.ErrConflict {
		return NewHTTPError(http.StatusConflict, "category in use")
	}
	if err != nil {
		u.log.WithError(err).Error("category delete failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
