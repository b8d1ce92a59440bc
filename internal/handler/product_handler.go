package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/validator"

	"github.com/labstack/echo/v4"
)

const defaultSyncLimit = 100

// /api/product の公開API＋同期
type ProductHandler struct {
	products usecase.ProductService
	syncUC   *usecase.SyncUsecase
}

// DI
func NewProductHandler(products usecase.ProductService, syncUC *usecase.SyncUsecase) *ProductHandler {
	return &ProductHandler{products: products, syncUC: syncUC}
}

type syncResponse struct {
	Message     string `json:"message"`
	SyncedCount int    `json:"syncedCount"`
}

// 商品のルートを登録（同期だけ認証あり）
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/product")
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/category/:category", h.byCategory)
	g.GET("/:id", h.detail)
	g.POST("/sync", h.sync, authMW)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.products.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	p, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("Product with ID %d not found.", id)})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) search(c echo.Context) error {
	out, err := h.products.Search(c.Request().Context(), c.QueryParam("term"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) byCategory(c echo.Context) error {
	out, err := h.products.ByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /api/product/sync?limit=100
func (h *ProductHandler) sync(c echo.Context) error {
	limit := defaultSyncLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = l
	}
	if err := validator.Check(validator.SyncRequest{Limit: limit}); err != nil {
		return writeError(c, err)
	}

	n, err := h.syncUC.Sync(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, syncResponse{
		Message:     fmt.Sprintf("Successfully synced %d products from DummyJSON API.", n),
		SyncedCount: n,
	})
}
