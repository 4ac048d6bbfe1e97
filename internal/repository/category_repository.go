package repository

import (
	"app/internal/domain/model"
	"context"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (model.Category, error)

	//名前重複はErrDuplicate
	Create(ctx context.Context, c model.Category) (model.Category, error)

	//商品が1つも参照していないときだけ消す（1文で判定と削除を行う）。
	//参照中はErrConflict、存在しなければErrNotFound
	Delete(ctx context.Context, id string) error
}
