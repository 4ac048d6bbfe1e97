package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	stockUC *usecase.StockUsecase
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(stockUC *usecase.StockUsecase, orderUC *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{stockUC: stockUC, orderUC: orderUC}
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type OrderCreateRequest struct {
	Items       []orderLineRequest `json:"items"`
	TotalAmount int64              `json:"total_amount"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
}

// checkout本体。注文作成と在庫減算は1トランザクション
func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}

	lines := make([]usecase.CheckoutLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.CheckoutLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	order, err := h.stockUC.Checkout(c.Request().Context(), ident, usecase.CheckoutInput{
		Lines: lines,
		Total: req.TotalAmount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) list(c echo.Context) error {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}

	out, err := h.orderUC.ListOrders(c.Request().Context(), ident)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
