package usecase

import (
	"context"
	"net/http"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/policy"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

// 注文の読み取り専用usecase。注文の作成はStockUsecase.Checkoutだけが行う。
type OrderUsecase struct {
	orders repo.OrderRepository
	log    *logrus.Logger
}

func NewOrderUsecase(orders repo.OrderRepository, log *logrus.Logger) *OrderUsecase {
	return &OrderUsecase{orders: orders, log: log}
}

// 新しい順。読み取りなので何度呼んでも状態は変わらない。
func (u *OrderUsecase) ListOrders(ctx context.Context, ident auth.Identity) ([]model.Order, error) {
	if !policy.Allowed(ident, policy.OpOrderList) {
		return nil, NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	orders, err := u.orders.List(ctx)
	if err != nil {
		u.log.WithError(err).Error("order list failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}
