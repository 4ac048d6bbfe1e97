package repository

import (
	"app/internal/domain/model"
	"context"
)

// 在庫数への書き込みはこのrepoだけが行う。
type InventoryRepository interface {
	// 在庫が足りるときだけ減算。足りない・対象なしはfalse
	DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error)

	// 在庫追加（restock）。対象なしはErrNotFound
	IncreaseStock(ctx context.Context, productID string, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.StockAdjustment) error
}
