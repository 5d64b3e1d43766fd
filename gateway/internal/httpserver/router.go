package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/token_auth/gateway/internal/middleware"
	"github.com/Skotchmaster/token_auth/pkg/apperr"
)

const (
	PublicMessage  = "API has started successfully."
	PrivateMessage = "You can access this private Route"
)

type Deps struct {
	JWTSecret []byte
	// UpstreamURL, when set, receives every authenticated request that no
	// local route handles.
	UpstreamURL string
	Logger      *slog.Logger
}

func Register(e *echo.Echo, d *Deps) error {
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	for _, m := range middleware.Common(d.Logger) {
		e.Use(m)
	}
	e.Use(middleware.Middleware(d.JWTSecret, "/", "/health/live"))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, PublicMessage) })
	e.GET("/posts", func(c echo.Context) error { return c.String(http.StatusOK, PrivateMessage) })

	if d.UpstreamURL != "" {
		upstream, err := newProxy(d.UpstreamURL)
		if err != nil {
			return err
		}
		e.Any("/*", upstream)
	}

	return nil
}
