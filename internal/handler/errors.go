package handler

import (
	"net/http"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Message: he.Message})
	}

	//500（原因はログにだけ出す）
	c.Logger().Errorj(log.JSON{
		"event":  "unhandled_error",
		"method": c.Request().Method,
		"path":   c.Path(),
		"error":  err.Error(),
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}
