package handler

import (
	"net/http"
	"strconv"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/favorite（全部認証あり）
type FavoriteHandler struct {
	uc *usecase.FavoriteUsecase
}

// DI
func NewFavoriteHandler(uc *usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{uc: uc}
}

func (h *FavoriteHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/favorite", authMW)
	g.GET("", h.list)
	g.GET("/:productId/check", h.check)
	g.POST("/:productId", h.add)
	g.DELETE("/:productId", h.remove)
}

func (h *FavoriteHandler) list(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 本文は true / false だけ
func (h *FavoriteHandler) check(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid productId")
	}

	ok, err := h.uc.IsFavorite(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ok)
}

func (h *FavoriteHandler) add(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid productId")
	}

	if err := h.uc.Add(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FavoriteHandler) remove(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid productId")
	}

	if err := h.uc.Remove(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
