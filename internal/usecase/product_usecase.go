package usecase

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/policy"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	log          *logrus.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	log *logrus.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		log:          log,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Search     string
	CategoryID string
	MinPrice   *int64
	MaxPrice   *int64
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
	})
	if err != nil {
		u.log.WithError(err).Error("product list failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return items, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.log.WithError(err).Error("product find failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type CreateProductInput struct {
	Name       string
	Price      int64
	Stock      int64
	CategoryID string
	Image      string
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, ident auth.Identity, in CreateProductInput) (model.Product, error) {
	//storeに触る前にポリシー確認
	if !policy.Allowed(ident, policy.OpProductCreate) {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "admin access required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be positive")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock cannot be negative")
	}
	if in.CategoryID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "category required")
	}
	if !validImageURL(in.Image) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "image must be a valid url")
	}

	//カテゴリの存在確認
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		u.log.WithError(err).Error("category find failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Price:      in.Price,
		Stock:      in.Stock,
		CategoryID: in.CategoryID,
		Image:      in.Image,
	})
	if err != nil {
		u.log.WithError(err).Error("product create failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 部分更新。nilのフィールドは変更しない
type UpdateProductInput struct {
	Name       *string
	Price      *int64
	Stock      *int64
	CategoryID *string
	Image      *string
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, ident auth.Identity, productID string, in UpdateProductInput) (model.Product, error) {
	if !policy.Allowed(ident, policy.OpProductUpdate) {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "admin access required")
	}
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	//指定されたフィールドだけcreateと同じ検証をかける
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price != nil && *in.Price <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be positive")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock cannot be negative")
	}
	if in.Image != nil && !validImageURL(*in.Image) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "image must be a valid url")
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category required")
		}
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repo.ErrNotFound {
				return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
			}
			u.log.WithError(err).Error("category find failed")
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	err := u.productRepo.Update(ctx, productID, repo.ProductPatch{
		Name:       in.Name,
		Price:      in.Price,
		Stock:      in.Stock,
		CategoryID: in.CategoryID,
		Image:      in.Image,
	})
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.log.WithError(err).Error("product update failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		//patchとreloadの間に消された
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.log.WithError(err).Error("product reload failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// imageは省略可。指定するならhttp(s)のURL（空文字は「画像なし」）
func validImageURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, ident auth.Identity, productID string) error {
	if !policy.Allowed(ident, policy.OpProductDelete) {
		return NewHTTPError(http.StatusForbidden, "admin access required")
	}
	if productID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	//過去の注文明細はスナップショットを持っているので連鎖削除しない
	err := u.productRepo.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.log.WithError(err).Error("product delete failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
