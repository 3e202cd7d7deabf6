package wealthwise

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/wealthwise/blob"
	"github.com/eringen/wealthwise/composer"
)

// Upload purposes accepted from the admin client.
const (
	CoverPurpose   = "covers"
	ContentPurpose = composer.ContentPurpose
)

func (a *App) uploader() (*blob.Uploader, error) {
	if a.Uploads == nil {
		return nil, &FeatureDisabledError{Feature: "image uploads"}
	}
	return a.Uploads, nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (a *App) handleUpload(c echo.Context) error {
	up, err := a.uploader()
	if err != nil {
		return err
	}
	purpose := c.FormValue("purpose")
	switch purpose {
	case "":
		purpose = CoverPurpose
	case CoverPurpose, ContentPurpose:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "purpose must be covers or content")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No image file provided")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	url, err := up.Upload(c.Request().Context(), purpose, file.Filename, src, file.Size)
	if err != nil {
		return err
	}
	a.Log.InfoContext(c.Request().Context(), "image uploaded", "purpose", purpose, "url", url)
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}
