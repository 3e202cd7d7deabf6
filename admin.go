package wealthwise

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/wealthwise/content"
)

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

type sessionResponse struct {
	State      string            `json:"state"`
	CSRFToken  string            `json:"csrf_token,omitempty"`
	LoadErrors map[string]string `json:"load_errors,omitempty"`
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if err := a.adminAvailable(); err != nil {
		return err
	}
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed login request")
	}
	// Rejected passwords never allocate a workspace.
	if !a.Workspaces.Gate().Check(req.Password) {
		a.loginLimiter.Record(ip)
		a.Log.WarnContext(c.Request().Context(), "admin login rejected", "ip", ip)
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect password")
	}
	sess, id, _, err := sessionID(c)
	if err != nil {
		return err
	}
	w := a.Workspaces.Open(id)
	if !w.Login(c.Request().Context(), req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect password")
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		State:      w.State().String(),
		CSRFToken:  CsrfToken(c),
		LoadErrors: w.LoadErrors(),
	})
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if a.Workspaces != nil {
		if sess, err := session.Get(sessionName, c); err == nil {
			if id, _ := sess.Values["id"].(string); id != "" {
				a.Workspaces.Logout(id)
			}
		}
	}
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{State: "anonymous"})
}

// handleAdminSession reports whether the session is signed in. It also hands
// out the CSRF token the admin client sends back on writes.
func (a *App) handleAdminSession(c echo.Context) error {
	resp := sessionResponse{State: "anonymous", CSRFToken: CsrfToken(c)}
	if a.adminAvailable() != nil || !IsAdmin(c) {
		return c.JSON(http.StatusOK, resp)
	}
	sess, id, assigned, err := sessionID(c)
	if err != nil {
		return err
	}
	if assigned {
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return err
		}
	}
	w := a.Workspaces.Open(id)
	w.Resume(c.Request().Context())
	resp.State = w.State().String()
	resp.LoadErrors = w.LoadErrors()
	return c.JSON(http.StatusOK, resp)
}

func listJSON[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

func (a *App) handleAdminPosts(c echo.Context) error {
	return listJSON(c, currentWorkspace(c).Posts())
}

func (a *App) handleAdminPost(c echo.Context) error {
	p, err := a.Posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleAdminPostCreate(c echo.Context) error {
	var p content.BlogPost
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed post")
	}
	created, err := currentWorkspace(c).CreatePost(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *App) handleAdminPostUpdate(c echo.Context) error {
	var patch content.PostPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed post update")
	}
	updated, err := currentWorkspace(c).UpdatePost(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleAdminPostDelete(c echo.Context) error {
	ok, err := currentWorkspace(c).DeletePost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{Deleted: ok})
}

// handleAdminBookings lists the cached bookings, or with ?date=YYYY-MM-DD
// the bookings requested for that day, read from the store.
func (a *App) handleAdminBookings(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return listJSON(c, currentWorkspace(c).Bookings())
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &content.ValidationError{Field: "date", Reason: "must be a date in YYYY-MM-DD form"}
	}
	bookings, err := a.Bookings.ListByDate(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return listJSON(c, bookings)
}

func (a *App) handleAdminBooking(c echo.Context) error {
	b, err := a.Bookings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (a *App) handleAdminBookingUpdate(c echo.Context) error {
	var patch content.BookingPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed booking update")
	}
	updated, err := currentWorkspace(c).UpdateBooking(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleAdminBookingDelete(c echo.Context) error {
	ok, err := currentWorkspace(c).DeleteBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{Deleted: ok})
}

func (a *App) handleAdminContacts(c echo.Context) error {
	return listJSON(c, currentWorkspace(c).Contacts())
}

func (a *App) handleAdminContact(c echo.Context) error {
	ct, err := a.Contacts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ct)
}

func (a *App) handleAdminContactUpdate(c echo.Context) error {
	var patch content.ContactPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed contact update")
	}
	updated, err := currentWorkspace(c).UpdateContact(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleAdminContactDelete(c echo.Context) error {
	ok, err := currentWorkspace(c).DeleteContact(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{Deleted: ok})
}
