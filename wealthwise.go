// Package wealthwise is the backend of a financial-services marketing site:
// a public blog, session booking and contact intake with e-mail
// notifications, and a password-gated admin area over posts, bookings and
// contacts, built with Go, Echo, and templ.
//
// Pages are rendered by user-provided templ components through ViewFuncs;
// without a view the same data is served as JSON.
package wealthwise

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/wealthwise/blob"
	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/intake"
	"github.com/eringen/wealthwise/mail"
	"github.com/eringen/wealthwise/service"
	"github.com/eringen/wealthwise/store"
	"github.com/eringen/wealthwise/workspace"
)

// ViewFuncs holds user-provided templ components for the public pages.
// Any nil view makes its route answer with JSON instead.
type ViewFuncs struct {
	Home        func(posts []content.BlogPost, siteURL string) templ.Component
	Blog        func(posts []content.BlogPost) templ.Component
	Post        func(post content.BlogPost, body templ.Component, related []content.BlogPost, siteURL string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires together the content store, services, intake, admin
// workspaces, uploads, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Views  ViewFuncs
	Log    *slog.Logger

	Store      *store.DB
	Posts      *service.Posts
	Bookings   *service.Bookings
	Contacts   *service.Contacts
	Cache      *PostCache
	Intake     *intake.Intake
	Workspaces *workspace.Registry
	Uploads    *blob.Uploader

	loginLimiter *LoginLimiter
	mailSender   mail.Sender
	storage      blob.Storage
	calendar     *intake.Calendar
	customRoutes []func(*App)
	staticDir    string

	logCloser io.Closer
	stop      context.CancelFunc
	closeOnce sync.Once
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init connects the store and builds every component, middleware and route.
// Optional configuration that is missing disables its feature with a warning.
func (a *App) Init(ctx context.Context) error {
	if a.Log == nil {
		a.Log, a.logCloser = NewLogger(a.Config.Log, nil)
	}
	log := a.Log

	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = randomSecret()
		log.Warn("SESSION_SECRET not set, using an ephemeral secret; admin sessions end on restart")
	}

	bg, stop := context.WithCancel(context.Background())
	a.stop = stop

	if a.Config.StoreURL == "" {
		log.Warn("STORE_URL not set, blog, booking and contact features are disabled")
	} else {
		db, err := store.Open(ctx, a.Config.StoreURL, store.Options{APIKey: a.Config.StoreAPIKey, Logger: log})
		if err != nil {
			return fmt.Errorf("wealthwise: open store: %w", err)
		}
		a.Store = db
		a.Posts = service.NewPosts(db.Posts, service.WithLogger(log))
		a.Bookings = service.NewBookings(db.Bookings, service.WithLogger(log))
		a.Contacts = service.New[content.Contact, content.ContactPatch]("contacts", db.Contacts, service.WithLogger(log))

		a.Cache = NewPostCache(a.Posts, a.Config.PostCacheTTL)
		a.Cache.Follow(a.Posts.Changes())

		a.Intake = intake.New(a.Bookings, a.Contacts, a.notifier(),
			intake.WithCalendar(a.bookingCalendar()),
			intake.WithLogger(log))

		gate := workspace.NewGate(a.Config.AdminPassword, log)
		a.Workspaces = workspace.NewRegistry(gate, workspace.Services{
			Posts:    a.Posts,
			Bookings: a.Bookings,
			Contacts: a.Contacts,
		}, a.Config.WorkspaceIdle, log)
		go a.Workspaces.Run(bg)
	}

	a.loginLimiter = NewLoginLimiter(a.Config.LoginMaxAttempts, a.Config.LoginWindow)

	storage := a.storage
	if storage == nil {
		var err error
		if storage, err = a.newStorage(ctx); err != nil {
			return fmt.Errorf("wealthwise: init uploads: %w", err)
		}
	}
	if storage != nil {
		var opts []blob.UploaderOption
		if a.Config.Blob.MaxBytes > 0 {
			opts = append(opts, blob.WithMaxBytes(a.Config.Blob.MaxBytes))
		}
		if a.Config.Blob.MaxWidth > 0 {
			opts = append(opts, blob.WithMaxWidth(a.Config.Blob.MaxWidth))
		}
		a.Uploads = blob.NewUploader(storage, opts...)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) notifier() *mail.Notifier {
	if a.mailSender != nil {
		return mail.NewNotifierWithSender(a.mailSender, a.Config.Mail, a.Log)
	}
	return mail.NewNotifier(a.Config.Mail, a.Log)
}

func (a *App) bookingCalendar() intake.Calendar {
	if a.calendar != nil {
		return *a.calendar
	}
	return a.Config.calendar(a.Log)
}

func (a *App) newStorage(ctx context.Context) (blob.Storage, error) {
	cfg := a.Config.Blob
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		if cfg.S3.Bucket == "" {
			a.Log.Warn("S3_BUCKET not set, image uploads are disabled")
			return nil, nil
		}
		s, err := blob.NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "local":
		dir := cfg.Dir
		if dir == "" {
			dir = filepath.Join(a.staticDir, "uploads")
		}
		l, err := blob.NewLocal(dir, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("wealthwise: read random secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)

	api := e.Group("/api")
	api.GET("/booking/slots", a.handleSlots)
	api.POST("/bookings", a.handleBookingSubmit)
	api.POST("/contacts", a.handleContactSubmit)

	// Admin routes
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.GET("/admin/session/", a.handleAdminSession)

	admin := e.Group("/admin", a.requireAdmin)
	admin.GET("/posts/", a.handleAdminPosts)
	admin.POST("/posts/", a.handleAdminPostCreate)
	admin.GET("/posts/:id/", a.handleAdminPost)
	admin.PATCH("/posts/:id/", a.handleAdminPostUpdate)
	admin.DELETE("/posts/:id/", a.handleAdminPostDelete)

	admin.GET("/bookings/", a.handleAdminBookings)
	admin.GET("/bookings/:id/", a.handleAdminBooking)
	admin.PATCH("/bookings/:id/", a.handleAdminBookingUpdate)
	admin.DELETE("/bookings/:id/", a.handleAdminBookingDelete)

	admin.GET("/contacts/", a.handleAdminContacts)
	admin.GET("/contacts/:id/", a.handleAdminContact)
	admin.PATCH("/contacts/:id/", a.handleAdminContactUpdate)
	admin.DELETE("/contacts/:id/", a.handleAdminContactDelete)

	admin.POST("/uploads/", a.handleUpload)
	admin.POST("/preview/", a.handlePreview)
	admin.GET("/events/", a.handleEvents)

	admin.POST("/drafts/", a.handleDraftOpen)
	admin.GET("/drafts/:draft/", a.handleDraft)
	admin.DELETE("/drafts/:draft/", a.handleDraftClose)
	admin.GET("/drafts/:draft/preview/", a.handleDraftPreview)
	admin.POST("/drafts/:draft/blocks/", a.handleDraftAddBlock)
	admin.PATCH("/drafts/:draft/blocks/:block/", a.handleDraftUpdateBlock)
	admin.DELETE("/drafts/:draft/blocks/:block/", a.handleDraftDeleteBlock)
	admin.POST("/drafts/:draft/blocks/:block/up/", a.handleDraftMoveUp)
	admin.POST("/drafts/:draft/blocks/:block/down/", a.handleDraftMoveDown)
	admin.POST("/drafts/:draft/blocks/:block/image/", a.handleDraftBlockImage)
}

// Run initializes the app and serves until ctx ends, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()

	errc := make(chan error, 1)
	go func() {
		a.Log.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("shutting down")
	return a.Echo.Shutdown(shutdownCtx)
}

// Start initializes the app and serves until the server stops.
func (a *App) Start() error {
	return a.Run(context.Background())
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.stop != nil {
			a.stop()
		}
		if a.Workspaces != nil {
			a.Workspaces.Close()
		}
		if a.Cache != nil {
			a.Cache.Close()
		}
		a.loginLimiter.Stop()
		if a.Store != nil {
			err = a.Store.Close()
		}
		if a.logCloser != nil {
			a.logCloser.Close()
		}
	})
	return err
}
