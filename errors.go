package wealthwise

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/wealthwise/blob"
	"github.com/eringen/wealthwise/composer"
	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/workspace"
)

// FeatureDisabledError is returned by routes whose backing configuration is absent.
type FeatureDisabledError struct {
	Feature string
}

func (e *FeatureDisabledError) Error() string {
	return e.Feature + " is not available"
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusOf maps an error kind to an HTTP status and a short message fit for
// the end user. Provider detail stays in the log.
func statusOf(err error) (int, errorBody) {
	var (
		he       *echo.HTTPError
		invalid  *content.ValidationError
		upload   *blob.UploadError
		disabled *FeatureDisabledError
	)
	switch {
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, errorBody{Error: msg}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorBody{Error: invalid.Error(), Field: invalid.Field}
	case errors.Is(err, content.ErrNotFound), errors.Is(err, workspace.ErrNoDraft), errors.Is(err, composer.ErrNoBlock):
		return http.StatusNotFound, errorBody{Error: "not found"}
	case errors.Is(err, composer.ErrLastBlock):
		return http.StatusConflict, errorBody{Error: "a post needs at least one block"}
	case errors.Is(err, composer.ErrBlockType):
		return http.StatusBadRequest, errorBody{Error: "block type must be text or image"}
	case errors.Is(err, content.ErrConflict):
		return http.StatusConflict, errorBody{Error: "a record with that slug already exists"}
	case errors.Is(err, workspace.ErrUnauthenticated):
		return http.StatusUnauthorized, errorBody{Error: "login required"}
	case errors.As(err, &upload):
		switch {
		case errors.Is(err, blob.ErrTooLarge):
			return http.StatusRequestEntityTooLarge, errorBody{Error: "image is too large"}
		case errors.Is(err, blob.ErrUnsupportedType), errors.Is(err, blob.ErrEmpty):
			return http.StatusBadRequest, errorBody{Error: "file is not a supported image"}
		}
		return http.StatusBadGateway, errorBody{Error: "image upload failed"}
	case errors.As(err, &disabled):
		return http.StatusServiceUnavailable, errorBody{Error: disabled.Error()}
	case content.IsStoreError(err):
		return http.StatusBadGateway, errorBody{Error: "content store unavailable, try again"}
	}
	return http.StatusInternalServerError, errorBody{Error: "something went wrong"}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, body := statusOf(err)

	html := a.wantsHTML(c)
	if code == http.StatusNotFound && html && a.Views.NotFound != nil {
		_ = RenderStatus(c, code, a.Views.NotFound())
		return
	}
	if code >= 500 {
		a.Log.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "status", code, "error", err)
		if html && a.Views.ServerError != nil {
			_ = RenderStatus(c, code, a.Views.ServerError())
			return
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

// wantsHTML reports whether the request is a page view rather than an API call.
func (a *App) wantsHTML(c echo.Context) bool {
	path := c.Request().URL.Path
	return !isAPIPath(path) && !isAdminPath(path)
}
