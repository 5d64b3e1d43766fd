package cookie

import (
	"net/http"
	"time"
)

const RefreshName = "refreshToken"

// Refresh builds the refresh token cookie. maxAgeMs is the token lifetime in
// milliseconds; the cookie carries it in whole seconds.
func Refresh(value string, maxAgeMs int64, secure bool) *http.Cookie {
	maxAge := int(maxAgeMs / 1000)
	return &http.Cookie{
		Name:     RefreshName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func ClearRefresh(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
