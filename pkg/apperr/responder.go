package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/token_auth/pkg/logging"
)

type Body struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

var statusLabels = map[int]string{
	http.StatusBadRequest:          ErrBadRequest.Status,
	http.StatusUnauthorized:        ErrUnauthorized.Status,
	http.StatusForbidden:           ErrForbidden.Status,
	http.StatusNotFound:            ErrNotFound.Status,
	http.StatusConflict:            ErrConflict.Status,
	http.StatusUnprocessableEntity: ErrValidation.Status,
	http.StatusInternalServerError: ErrInternalServer.Status,
}

// Render converts any error into the response code and body.
func Render(err error) (int, Body) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status := statusLabels[he.Code]
		if status == "" {
			status = "error"
		}
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		return he.Code, Body{Status: status, Message: msg, Data: map[string]any{}}
	}

	e := From(err)
	body := Body{Status: e.Status, Message: e.Message, Data: e.Data}
	if body.Status == "" {
		body.Status = "error"
	}
	if body.Message == "" {
		body.Message = "Something went wrong"
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	return e.code(), body
}

// HTTPErrorHandler is installed as echo's error handler in both services.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, body := Render(err)

	l := logging.FromContext(c.Request().Context())
	if code >= http.StatusInternalServerError {
		l.Error("request_failed", "status", code, "error", fmt.Sprintf("%v", err))
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, body)
	}
	if werr != nil {
		l.Error("error_response_failed", "error", werr)
	}
}
