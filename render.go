package wealthwise

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderOr renders view when the site provides one and data as JSON otherwise.
func renderOr(c echo.Context, view func() templ.Component, data any) error {
	if view != nil {
		return Render(c, view())
	}
	return c.JSON(http.StatusOK, data)
}

// renderString renders cmp into a string, for JSON responses carrying HTML.
func renderString(ctx context.Context, cmp templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
