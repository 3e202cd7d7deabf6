package wealthwise

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/wealthwise/composer"
)

type draftRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type draftResponse struct {
	ID          string           `json:"id"`
	Blocks      []composer.Block `json:"blocks"`
	Content     string           `json:"content"`
	ReadingTime string           `json:"reading_time"`
}

func draftJSON(c echo.Context, code int, id string, d *composer.Composer) error {
	body, err := d.Serialize()
	if err != nil {
		return err
	}
	return c.JSON(code, draftResponse{
		ID:          id,
		Blocks:      d.Blocks(),
		Content:     body,
		ReadingTime: composer.ReadingTime(body),
	})
}

// handleDraftOpen starts editing a post body, either the stored content of
// post_id or the content sent in the request.
func (a *App) handleDraftOpen(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed draft request")
	}
	body := req.Content
	if req.PostID != "" {
		p, err := a.Posts.Get(c.Request().Context(), req.PostID)
		if err != nil {
			return err
		}
		body = p.Content
	}
	id, d, err := currentWorkspace(c).OpenDraft(body)
	if err != nil {
		return err
	}
	return draftJSON(c, http.StatusCreated, id, d)
}

func (a *App) draft(c echo.Context) (string, *composer.Composer, error) {
	id := c.Param("draft")
	d, err := currentWorkspace(c).Draft(id)
	return id, d, err
}

func (a *App) handleDraft(c echo.Context) error {
	id, d, err := a.draft(c)
	if err != nil {
		return err
	}
	return draftJSON(c, http.StatusOK, id, d)
}

func (a *App) handleDraftClose(c echo.Context) error {
	currentWorkspace(c).CloseDraft(c.Param("draft"))
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleDraftPreview(c echo.Context) error {
	_, d, err := a.draft(c)
	if err != nil {
		return err
	}
	return Render(c, composer.Render(d.Blocks()))
}

type blockRequest struct {
	Type    composer.BlockType `json:"type"`
	Content *string            `json:"content"`
}

func (a *App) handleDraftAddBlock(c echo.Context) error {
	id, d, err := a.draft(c)
	if err != nil {
		return err
	}
	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed block request")
	}
	b, err := d.AddBlock(req.Type)
	if err != nil {
		return err
	}
	if req.Content != nil {
		if err := d.UpdateBlockContent(b.ID, *req.Content); err != nil {
			return err
		}
	}
	return draftJSON(c, http.StatusCreated, id, d)
}

func (a *App) handleDraftUpdateBlock(c echo.Context) error {
	id, d, err := a.draft(c)
	if err != nil {
		return err
	}
	var req blockRequest
	if err := c.Bind(&req); err != nil || req.Content == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if err := d.UpdateBlockContent(c.Param("block"), *req.Content); err != nil {
		return err
	}
	return draftJSON(c, http.StatusOK, id, d)
}

// blockOp applies op to the block named in the path and answers with the draft.
func (a *App) blockOp(c echo.Context, op func(d *composer.Composer, block string) error) error {
	id, d, err := a.draft(c)
	if err != nil {
		return err
	}
	if err := op(d, c.Param("block")); err != nil {
		return err
	}
	return draftJSON(c, http.StatusOK, id, d)
}

func (a *App) handleDraftDeleteBlock(c echo.Context) error {
	return a.blockOp(c, (*composer.Composer).DeleteBlock)
}

func (a *App) handleDraftMoveUp(c echo.Context) error {
	return a.blockOp(c, (*composer.Composer).MoveUp)
}

func (a *App) handleDraftMoveDown(c echo.Context) error {
	return a.blockOp(c, (*composer.Composer).MoveDown)
}

// handleDraftBlockImage uploads the image of one image block. A failed upload
// empties that block only.
func (a *App) handleDraftBlockImage(c echo.Context) error {
	up, err := a.uploader()
	if err != nil {
		return err
	}
	id, d, err := a.draft(c)
	if err != nil {
		return err
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

	if _, err := d.UploadImage(c.Request().Context(), c.Param("block"), up, file.Filename, src, file.Size); err != nil {
		return err
	}
	return draftJSON(c, http.StatusOK, id, d)
}

type previewRequest struct {
	Content string           `json:"content" form:"content"`
	Blocks  []composer.Block `json:"blocks"`
}

// handlePreview renders a post body without storing it.
func (a *App) handlePreview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed preview request")
	}
	blocks := req.Blocks
	if len(blocks) == 0 {
		var err error
		if blocks, err = composer.Deserialize(req.Content); err != nil {
			return err
		}
	}
	return Render(c, composer.Render(blocks))
}
