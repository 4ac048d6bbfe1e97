package usecase

import (
	"context"
	"net/http"
	"sort"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/policy"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StockUsecase は在庫を減らす・増やす唯一の入口。
// 単品購入もcheckoutも同じ条件付き減算（stock >= qtyのときだけUPDATE）を通るので、
// 在庫が負にならない保証はここ1か所に集まる。
type StockUsecase struct {
	tx  repo.TransactionManager
	log *logrus.Logger
}

func NewStockUsecase(tx repo.TransactionManager, log *logrus.Logger) *StockUsecase {
	return &StockUsecase{tx: tx, log: log}
}

// PurchaseOne は在庫を1つだけ減らす。認証済みなら誰でも。
// stock=1に対して同時に2回呼ばれたら、成功は必ず1回だけ。
func (u *StockUsecase) PurchaseOne(ctx context.Context, ident auth.Identity, productID string) (model.Product, error) {
	if !policy.Allowed(ident, policy.OpPurchase) {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var out model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//存在確認（out of stockとnot foundを区別する）
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			u.log.WithError(err).Error("product find failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, productID, 1)
		if err != nil {
			u.log.WithError(err).Error("stock decrement failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "out of stock")
		}

		//減算後の状態を返す
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			u.log.WithError(err).Error("product reload failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = p
		return nil
	})

	if err != nil {
		return model.Product{}, mapTxError(err)
	}
	return out, nil
}

// Restock は在庫をamountだけ増やす。ADMINのみ。
// 調整履歴も同じトランザクションで残す。
func (u *StockUsecase) Restock(ctx context.Context, ident auth.Identity, productID string, amount int64) (model.Product, error) {
	if !policy.Allowed(ident, policy.OpRestock) {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "admin access required")
	}
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if amount <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "amount must be a positive integer")
	}

	var out model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Inventory().IncreaseStock(ctx, productID, amount); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			u.log.WithError(err).Error("stock increment failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		adj := model.StockAdjustment{
			ID:          uuid.NewString(),
			ProductID:   productID,
			AdminUserID: ident.UserID,
			Delta:       amount,
			Reason:      "restock",
		}
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			u.log.WithError(err).Error("adjustment create failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			u.log.WithError(err).Error("product reload failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = p
		return nil
	})

	if err != nil {
		return model.Product{}, mapTxError(err)
	}
	return out, nil
}

type CheckoutLine struct {
	ProductID string
	Quantity  int64
	UnitPrice int64
}

type CheckoutInput struct {
	Lines []CheckoutLine
	Total int64
}

// Checkout は複数明細の注文を1つのトランザクションで処理する。
// どれか1行でも在庫不足・商品なしなら注文ごと失敗し、在庫は1つも減らない。
// 予約やバックオーダーはしない。
func (u *StockUsecase) Checkout(ctx context.Context, ident auth.Identity, in CheckoutInput) (model.Order, error) {
	if !policy.Allowed(ident, policy.OpCheckout) {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if len(in.Lines) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "order has no items")
	}
	for _, line := range in.Lines {
		if line.ProductID == "" {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		if line.Quantity < 1 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
		}
	}

	//行をProductID順に処理する。全checkoutがロックを同じ順序で取るので、
	//互いに逆順の注文同士がデッドロックすることはない
	lines := make([]CheckoutLine, len(in.Lines))
	copy(lines, in.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items := make([]model.OrderItem, 0, len(lines))
		var total int64 = 0

		for _, line := range lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err != nil {
				u.log.WithError(err).Error("product find failed")
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//単価はカタログの現在価格をトランザクション内で確定する。
			//クライアントの申告と食い違ったら弾く
			if line.UnitPrice != p.Price {
				return NewHTTPError(http.StatusBadRequest, "price mismatch")
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.ProductID, line.Quantity)
			if err != nil {
				u.log.WithError(err).Error("stock decrement failed")
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "insufficient stock")
			}

			//スナップショット
			items = append(items, model.OrderItem{
				ID:                  uuid.NewString(),
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPrice:           p.Price,
				Quantity:            line.Quantity,
			})

			total += p.Price * line.Quantity
		}

		//申告合計はサーバー計算と一致しなければならない
		if in.Total != total {
			return NewHTTPError(http.StatusBadRequest, "total mismatch")
		}

		order := model.Order{
			ID:          uuid.NewString(),
			UserID:      ident.UserID,
			TotalAmount: total,
			Items:       items,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			u.log.WithError(err).Error("order create failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = order
		return nil
	})

	if err != nil {
		return model.Order{}, mapTxError(err)
	}
	return out, nil
}

// TransactionManagerがリトライ上限まで粘っても解消しなかった競合は409で返す
func mapTxError(err error) error {
	if err == repo.ErrConflict {
		return NewHTTPError(http.StatusConflict, "conflict")
	}
	return err
}
