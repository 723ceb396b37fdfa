package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders the 404 page for unknown routes and the generic
// error page for everything else.  Server errors are logged; their details
// are not shown.
func (h *CollectionHandler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
			msg = s
		}
	}
	if code >= http.StatusInternalServerError {
		h.Logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("unhandled error")
	}

	name := "error.html"
	if code == http.StatusNotFound {
		name = "404.html"
	}
	data := &pageData{Status: code, Message: msg}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.Render(code, name, data)
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("render error page failed")
		_ = c.String(code, http.StatusText(code))
	}
}
