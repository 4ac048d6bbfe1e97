package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧検索。未指定のフィールドは条件を課さない
type ProductListQuery struct {
	Search     string
	CategoryID string
	MinPrice   *int64
	MaxPrice   *int64
}

// 部分更新。nilのフィールドは変更しない
type ProductPatch struct {
	Name       *string
	Price      *int64
	Stock      *int64
	CategoryID *string
	Image      *string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) error
	Delete(ctx context.Context, id string) error
}
