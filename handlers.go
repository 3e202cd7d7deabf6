package wealthwise

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/wealthwise/composer"
	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/intake"
)

const (
	homePostCount = 3
	relatedCount  = 3
	bookableDays  = 30
)

func (a *App) blog() (*PostCache, error) {
	if a.Cache == nil {
		return nil, &FeatureDisabledError{Feature: "blog"}
	}
	return a.Cache, nil
}

func (a *App) forms() (*intake.Intake, error) {
	if a.Intake == nil {
		return nil, &FeatureDisabledError{Feature: "booking and contact forms"}
	}
	return a.Intake, nil
}

func (a *App) handleHome(c echo.Context) error {
	cache, err := a.blog()
	if err != nil {
		return err
	}
	posts, err := cache.Latest(c.Request().Context(), homePostCount)
	if err != nil {
		return err
	}
	var view func() templ.Component
	if a.Views.Home != nil {
		view = func() templ.Component { return a.Views.Home(posts, a.Config.URL) }
	}
	return renderOr(c, view, map[string]any{
		"site":    a.Config.Name,
		"url":     a.Config.URL,
		"posts":   posts,
		"json_ld": WebsiteJsonLD(a.Config),
	})
}

func (a *App) handleBlog(c echo.Context) error {
	cache, err := a.blog()
	if err != nil {
		return err
	}
	posts, err := cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	var view func() templ.Component
	if a.Views.Blog != nil {
		view = func() templ.Component { return a.Views.Blog(posts) }
	}
	return renderOr(c, view, map[string]any{"posts": posts})
}

func (a *App) handlePost(c echo.Context) error {
	cache, err := a.blog()
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	post, err := cache.GetPost(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	posts, err := cache.ListPosts(ctx)
	if err != nil {
		return err
	}
	related := RelatedPosts(post, posts, relatedCount)
	body := composer.RenderContent(post.Content)

	if a.Views.Post != nil {
		return Render(c, a.Views.Post(post, body, related, a.Config.URL))
	}
	html, err := renderString(ctx, body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"post":    post,
		"html":    html,
		"related": related,
		"json_ld": BlogPostingJsonLD(post, a.Config),
	})
}

func (a *App) publishedPosts(c echo.Context) ([]content.BlogPost, error) {
	if a.Cache == nil {
		return nil, nil
	}
	return a.Cache.ListPosts(c.Request().Context())
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.publishedPosts(c)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.publishedPosts(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

type slotsResponse struct {
	Date   string   `json:"date,omitempty"`
	Reason string   `json:"reason,omitempty"`
	Slots  []string `json:"slots"`
	Dates  []string `json:"dates"`
}

func (a *App) handleSlots(c echo.Context) error {
	in, err := a.forms()
	if err != nil {
		return err
	}
	cal := in.Calendar()
	resp := slotsResponse{Slots: intake.Slots, Dates: cal.AvailableDates(bookableDays)}
	if date := c.QueryParam("date"); date != "" {
		resp.Date = date
		if why := cal.Bookable(date); why != "" {
			resp.Reason = "date " + why
			resp.Slots = []string{}
		}
	}
	return c.JSON(http.StatusOK, resp)
}

type bookingResponse struct {
	Booking  content.Booking `json:"booking"`
	Notified bool            `json:"notified"`
	Message  string          `json:"message"`
}

func (a *App) handleBookingSubmit(c echo.Context) error {
	in, err := a.forms()
	if err != nil {
		return err
	}
	var f intake.BookingForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed booking request")
	}
	b, err := in.SubmitBooking(c.Request().Context(), f)
	var notifyErr *intake.NotifyError
	switch {
	case errors.As(err, &notifyErr):
		return c.JSON(http.StatusCreated, bookingResponse{
			Booking: b,
			Message: "Your session is booked, but we could not send the confirmation email.",
		})
	case err != nil:
		return err
	}
	return c.JSON(http.StatusCreated, bookingResponse{
		Booking:  b,
		Notified: true,
		Message:  "Session booked! A confirmation email is on its way.",
	})
}

type contactResponse struct {
	Contact  content.Contact `json:"contact"`
	Notified bool            `json:"notified"`
	Message  string          `json:"message"`
}

func (a *App) handleContactSubmit(c echo.Context) error {
	in, err := a.forms()
	if err != nil {
		return err
	}
	var f intake.ContactForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed contact request")
	}
	ct, err := in.SubmitContact(c.Request().Context(), f)
	var notifyErr *intake.NotifyError
	switch {
	case errors.As(err, &notifyErr):
		return c.JSON(http.StatusCreated, contactResponse{Contact: ct, Message: "Thanks, we received your message."})
	case err != nil:
		return err
	}
	return c.JSON(http.StatusCreated, contactResponse{Contact: ct, Notified: true, Message: "Thanks, we received your message."})
}
