package wealthwise

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const eventsKeepAlive = 25 * time.Second

// handleEvents streams the workspace notices as server-sent events until the
// client goes away or the session logs out.
func (a *App) handleEvents(c echo.Context) error {
	ctx := c.Request().Context()
	notices, err := currentWorkspace(c).Watch(ctx)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-store")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(eventsKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notices:
			if !ok {
				return nil
			}
			data, err := json.Marshal(n)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", n.Entity, data); err != nil {
				return nil
			}
			res.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
