package httpserver

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	echo "github.com/labstack/echo/v4"

	"github.com/Skotchmaster/token_auth/gateway/internal/middleware"
	"github.com/Skotchmaster/token_auth/pkg/logging"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUsername  = "X-Username"
	HeaderUserRoles = "X-User-Roles"
)

// newProxy forwards requests to target. Identity headers are always
// overwritten from the verified claims so a client cannot supply its own.
func newProxy(target string) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", target)
	}

	baseTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.Transport = baseTransport

	origDirector := p.Director
	p.Director = func(req *http.Request) {
		originalHost := req.Host
		originalProto := "http"
		if req.TLS != nil {
			originalProto = "https"
		} else if xf := req.Header.Get("X-Forwarded-Proto"); xf != "" {
			originalProto = xf
		}

		origDirector(req)

		if req.Header.Get("X-Forwarded-Proto") == "" {
			req.Header.Set("X-Forwarded-Proto", originalProto)
		}
		if req.Header.Get("X-Forwarded-Host") == "" && originalHost != "" {
			req.Header.Set("X-Forwarded-Host", originalHost)
		}
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.FromContext(r.Context()).Error("upstream_failed", "upstream", u.Host, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}

	p.FlushInterval = 100 * time.Millisecond

	return func(c echo.Context) error {
		req := c.Request()
		req.Header.Del(HeaderUserID)
		req.Header.Del(HeaderUsername)
		req.Header.Del(HeaderUserRoles)
		if claims, ok := middleware.ClaimsFrom(c); ok {
			req.Header.Set(HeaderUserID, claims.UserID)
			req.Header.Set(HeaderUsername, claims.Username)
			req.Header.Set(HeaderUserRoles, strings.Join(claims.Roles, ","))
		}
		p.ServeHTTP(c.Response(), req)
		return nil
	}, nil
}
