package server

import (
	"github.com/kockiy1/Abysalto-AP-Mid/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Basket   *handler.BasketHandler
	Favorite *handler.FavoriteHandler
	Health   *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, authMW echo.MiddlewareFunc) {
	h.Health.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, authMW)
	h.Product.RegisterRoutes(e, authMW)
	h.Basket.RegisterRoutes(e, authMW)
	h.Favorite.RegisterRoutes(e, authMW)
}
