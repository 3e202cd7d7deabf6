package wealthwise

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/wealthwise/workspace"
)

const (
	sessionName  = "admin_session"
	workspaceKey = "workspace"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			a.Log.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/public/") || path == "/admin/events/"
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		Skipper: func(c echo.Context) bool {
			// Public forms are posted cross-origin by the marketing pages.
			return isAPIPath(c.Request().URL.Path)
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.JSON(http.StatusForbidden, errorBody{Error: "invalid or missing CSRF token"})
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/public") ||
				isAPIPath(path) ||
				path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt" || path == "/favicon.svg"
		},
	}))

	e.Use(cacheControlMiddleware)
}

func isAPIPath(path string) bool   { return strings.HasPrefix(path, "/api/") }
func isAdminPath(path string) bool { return strings.HasPrefix(path, "/admin") }

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case isAdminPath(path) || isAPIPath(path):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}

// The admin flag lives until logout.
func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin checks if the current session is authenticated.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

// sessionID returns the workspace id of the session, assigning one if the
// session has none yet. assigned tells the caller to save the session.
func sessionID(c echo.Context) (sess *sessions.Session, id string, assigned bool, err error) {
	sess, err = session.Get(sessionName, c)
	if err != nil {
		return nil, "", false, err
	}
	id, _ = sess.Values["id"].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values["id"] = id
		assigned = true
	}
	return sess, id, assigned, nil
}

func setAdminSession(c echo.Context, sess *sessions.Session) error {
	sess.Values["authenticated"] = true
	return sess.Save(c.Request(), c.Response())
}

func clearAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

// adminAvailable reports whether the admin area can be used at all.
func (a *App) adminAvailable() error {
	switch {
	case a.Workspaces == nil:
		return &FeatureDisabledError{Feature: "admin area (no content store configured)"}
	case !a.Workspaces.Gate().Enabled():
		return &FeatureDisabledError{Feature: "admin area (no admin password configured)"}
	}
	return nil
}

// requireAdmin resolves the workspace of an authenticated session, resuming
// it if it was released while idle.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := a.adminAvailable(); err != nil {
			return err
		}
		if !IsAdmin(c) {
			return workspace.ErrUnauthenticated
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
		c.Set(workspaceKey, w)
		return next(c)
	}
}

func currentWorkspace(c echo.Context) *workspace.Workspace {
	w, _ := c.Get(workspaceKey).(*workspace.Workspace)
	return w
}
