package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/middleware"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/validator"

	"github.com/labstack/echo/v4"
)

// /api/basket（全部認証あり）
type BasketHandler struct {
	uc *usecase.BasketUsecase
}

// DI
func NewBasketHandler(uc *usecase.BasketUsecase) *BasketHandler {
	return &BasketHandler{uc: uc}
}

func (h *BasketHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/basket", authMW)
	g.GET("", h.get)
	g.DELETE("", h.clear)
	g.POST("/items", h.addItem)
	g.PUT("/items/:itemId", h.updateItem)
	g.DELETE("/items/:itemId", h.removeItem)
}

func (h *BasketHandler) get(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Basket not found."})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) addItem(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	// quantity省略時は1
	req := validator.AddToBasketRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Check(req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Add(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) updateItem(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid itemId")
	}
	quantity, err := readQuantity(c.Request().Body)
	if err != nil {
		return badRequest(c, "invalid quantity")
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), userID, itemID, quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) removeItem(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid itemId")
	}

	out, err := h.uc.Remove(c.Request().Context(), userID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) clear(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.uc.Clear(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PUTの本文は数値そのもの(例: 3)か {"quantity": 3}
func readQuantity(body io.Reader) (int64, error) {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<10))
	if err != nil {
		return 0, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, errors.New("empty body")
	}

	var n int64
	if raw[0] != '{' {
		err := json.Unmarshal(raw, &n)
		return n, err
	}

	var obj struct {
		Quantity *int64 `json:"quantity"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, err
	}
	if obj.Quantity == nil {
		return 0, errors.New("quantity is required")
	}
	return *obj.Quantity, nil
}

// 認証済みユーザーIDを取る（無ければ401を書いてechoのエラーで抜ける）
func requireUser(c echo.Context) (string, error) {
	userID := middleware.UserID(c)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated.")
	}
	return userID, nil
}
