package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProductCreateRequest struct {
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Stock      int64  `json:"stock"`
	CategoryID string `json:"category_id"`
	Image      string `json:"image"`
}

// 部分更新。省略されたフィールドは変更しない
type ProductUpdateRequest struct {
	Name       *string `json:"name"`
	Price      *int64  `json:"price"`
	Stock      *int64  `json:"stock"`
	CategoryID *string `json:"category_id"`
	Image      *string `json:"image"`
}

type RestockRequest struct {
	Amount int64 `json:"amount"`
}

// /admin/products をまとめる
type AdminProductHandler struct {
	uc      *usecase.ProductUsecase
	stockUC *usecase.StockUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase, stockUC *usecase.StockUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, stockUC: stockUC}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.createProduct)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/products/:id/restock", h.restock)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}

	p, err := h.uc.CreateProduct(
		c.Request().Context(),
		ident,
		usecase.CreateProductInput{
			Name:       req.Name,
			Price:      req.Price,
			Stock:      req.Stock,
			CategoryID: req.CategoryID,
			Image:      req.Image,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}

	p, err := h.uc.UpdateProduct(
		c.Request().Context(),
		ident,
		c.Param("id"),
		usecase.UpdateProductInput{
			Name:       req.Name,
			Price:      req.Price,
			Stock:      req.Stock,
			CategoryID: req.CategoryID,
			Image:      req.Image,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), ident, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) restock(c echo.Context) error {
	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}

	p, err := h.stockUC.Restock(c.Request().Context(), ident, c.Param("id"), req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}
