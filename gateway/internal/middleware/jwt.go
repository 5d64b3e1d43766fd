package middleware

import (
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/token_auth/pkg/apperr"
	"github.com/Skotchmaster/token_auth/pkg/logging"
	"github.com/Skotchmaster/token_auth/pkg/tokens"
)

const (
	CtxClaims   = "claims"
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRoles    = "roles"
)

// Middleware requires a valid bearer access token on every request whose
// path is not listed in public. Only the path is compared; the query string
// is ignored. Verification is stateless.
func Middleware(secret []byte, public ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if slices.Contains(public, c.Request().URL.Path) {
				return next(c)
			}

			token, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperr.Unauthorized("Unauthorized")
			}

			claims, err := tokens.Verify(token, secret)
			if err != nil {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "reason", "invalid token", "error", err)
				return apperr.Unauthorized("Unauthorized").WithCause(err)
			}

			c.Set(CtxClaims, claims)
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRoles, claims.Roles)

			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFrom returns the claims stored by Middleware.
func ClaimsFrom(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.Claims)
	return claims, ok && claims != nil
}
