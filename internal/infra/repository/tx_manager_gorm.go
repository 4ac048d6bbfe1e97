package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

// デッドロック・直列化失敗時の再試行回数
const txMaxAttempts = 3

type txReposGorm struct {
	products  repo.ProductRepository
	inventory repo.InventoryRepository
	orders    repo.OrderRepository
}

func (r *txReposGorm) Products() repo.ProductRepository    { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }
func (r *txReposGorm) Orders() repo.OrderRepository        { return r.orders }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// WithinTx はfn全体を1トランザクションで実行する。
// デッドロック（40P01）や直列化失敗（40001）はロールバック後に最初からやり直し、
// 上限まで粘っても駄目ならErrConflictを返す。業務エラーは再試行しない。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	var err error

	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		err = tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			//repoはtxを持ったDBで作り直す
			r := &txReposGorm{
				products:  NewProductGormRepository(tx),
				inventory: NewInventoryGormRepository(tx),
				orders:    NewOrderGormRepository(tx),
			}
			return fn(r)
		})

		if err == nil || !isRetryableConflict(err) {
			return err
		}
	}

	return repo.ErrConflict
}
