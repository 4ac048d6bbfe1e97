package repository

import (
	"app/internal/domain/model"
	"context"
)

// 注文の永続化。checkoutのトランザクション内からだけCreateされる。
// 在庫の減算と切り離して単独で呼ぶのは禁止。
type OrderRepository interface {
	//明細ごと一括作成
	Create(ctx context.Context, order *model.Order) error

	//新しい順。明細と商品参照を解決して返す
	List(ctx context.Context) ([]model.Order, error)
}
