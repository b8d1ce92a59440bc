package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kockiy1/Abysalto-AP-Mid/internal/metrics"
	"github.com/kockiy1/Abysalto-AP-Mid/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

// New はミドルウェアとルートを登録したechoを返す。
func New(logger *log.Logger, m *metrics.Metrics, verifier middleware.TokenVerifier, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = logger

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	if m != nil {
		e.Use(m.Middleware())
	}

	RegisterRoutes(e, h, middleware.AuthJWT(verifier))
	return e
}

// Start はctxが終わるまで待ち受け、終わったらgracefulに止める。
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
