package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/token_auth/pkg/apperr"
	loggingmw "github.com/Skotchmaster/token_auth/pkg/middleware/logging"
)

const Banner = "Auth API has started successfully."

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler *AuthHTTP
	Store       Pinger
	Logger      *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	e.Use(ecM.Recover(), ecM.RequestID(), ecM.Secure())
	if d.Logger != nil {
		e.Use(loggingmw.RequestLogger(d.Logger))
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Store == nil {
			return c.NoContent(http.StatusNoContent)
		}
		if err := d.Store.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable").SetInternal(err)
		}
		return c.NoContent(http.StatusNoContent)
	})

	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, Banner) })

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.POST("/token-refresh", d.AuthHandler.Refresh)
}
