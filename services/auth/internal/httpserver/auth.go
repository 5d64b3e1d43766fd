package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/token_auth/pkg/apperr"
	"github.com/Skotchmaster/token_auth/pkg/logging"
	"github.com/Skotchmaster/token_auth/services/auth/internal/cookie"
	"github.com/Skotchmaster/token_auth/services/auth/internal/service"
	"github.com/Skotchmaster/token_auth/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
	// SecureCookies sets the Secure flag on the refresh cookie.
	SecureCookies bool
}

func (h *AuthHTTP) bind(c echo.Context, event string) (transport.Credentials, error) {
	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		logging.FromContext(c.Request().Context()).Warn(event, "status", 400, "error", err)
		return req, apperr.BadRequest("invalid body").WithCause(err)
	}
	return req, nil
}

func (h *AuthHTTP) refreshCookie(c echo.Context) string {
	rc, err := c.Cookie(cookie.RefreshName)
	if err != nil {
		return ""
	}
	return rc.Value
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := h.bind(c, "register_error")
	if err != nil {
		return err
	}

	msg, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	req, err := h.bind(c, "login_error")
	if err != nil {
		return err
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(cookie.Refresh(pair.RefreshToken, h.Svc.Tokens.RefreshMaxAgeMs(), h.SecureCookies))
	l.Info("login_successful")

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Svc.LogOut(ctx, h.refreshCookie(c)); err != nil {
		return err
	}

	c.SetCookie(cookie.ClearRefresh(h.SecureCookies))
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	pair, err := h.Svc.Refresh(ctx, h.refreshCookie(c))
	if err != nil {
		return err
	}

	c.SetCookie(cookie.Refresh(pair.RefreshToken, h.Svc.Tokens.RefreshMaxAgeMs(), h.SecureCookies))
	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, transport.RefreshResponse{AccessToken: pair.AccessToken})
}
