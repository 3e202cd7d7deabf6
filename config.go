package wealthwise

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/wealthwise/blob"
	"github.com/eringen/wealthwise/intake"
	"github.com/eringen/wealthwise/mail"
)

// SiteConfig holds all configuration for a wealthwise site.
type SiteConfig struct {
	Name        string // Site name (default "WealthWise")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr        string // Listen address (default ":3000")
	StoreURL    string // sqlite:path or postgres:// URL; empty disables content features
	StoreAPIKey string // Database password when StoreURL carries none

	AdminPassword string // Shared admin password; empty disables the admin area
	SessionSecret string // Cookie signing secret; generated when empty
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL     time.Duration // Published post cache TTL (default 5min)
	LoginMaxAttempts int           // Failed logins per IP per LoginWindow; 0 disables the limit
	LoginWindow      time.Duration // default 1min
	WorkspaceIdle    time.Duration // Idle admin workspaces are released after this (default 30min)
	Timezone         string        // Booking calendar timezone (default local)

	Mail mail.Config
	Blob BlobConfig
	Log  LogConfig
}

// BlobConfig selects where uploaded images go.
type BlobConfig struct {
	Driver   string // "local" (default) or "s3"
	Dir      string // Local upload directory (default <static dir>/uploads)
	BaseURL  string // Public URL prefix of Dir (default "/public/uploads")
	MaxBytes int64
	MaxWidth int
	S3       blob.S3Config
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "WealthWise"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
	if c.WorkspaceIdle == 0 {
		c.WorkspaceIdle = 30 * time.Minute
	}
	if c.Blob.Driver == "" {
		c.Blob.Driver = "local"
	}
	if c.Blob.BaseURL == "" {
		c.Blob.BaseURL = "/public/uploads"
	}
	smtp := mail.DefaultConfig()
	if c.Mail.Host == "" {
		c.Mail.Host = smtp.Host
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = smtp.Port
	}
	if c.Mail.SiteName == "" {
		c.Mail.SiteName = c.Name
	}
}

// ConfigFromEnv reads the site configuration from environment variables.
func ConfigFromEnv() SiteConfig {
	return SiteConfig{
		Name:        os.Getenv("SITE_NAME"),
		URL:         os.Getenv("SITE_URL"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),

		Addr:        os.Getenv("ADDR"),
		StoreURL:    os.Getenv("STORE_URL"),
		StoreAPIKey: os.Getenv("STORE_API_KEY"),

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE", false),

		PostCacheTTL:     envDuration("POST_CACHE_TTL", 0),
		LoginMaxAttempts: envInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      envDuration("LOGIN_WINDOW", 0),
		WorkspaceIdle:    envDuration("WORKSPACE_IDLE", 0),
		Timezone:         os.Getenv("TIMEZONE"),

		Mail: mail.Config{
			From:           os.Getenv("EMAIL_FROM"),
			Host:           os.Getenv("SMTP_HOST"),
			Port:           envInt("SMTP_PORT", 0),
			Username:       os.Getenv("EMAIL_USER"),
			Password:       os.Getenv("EMAIL_PASSWORD"),
			SSL:            envBool("SMTP_SSL", false),
			TimeoutSeconds: envInt("SMTP_TIMEOUT", 30),
			AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		},
		Blob: BlobConfig{
			Driver:   os.Getenv("BLOB_DRIVER"),
			Dir:      os.Getenv("UPLOAD_DIR"),
			BaseURL:  os.Getenv("UPLOAD_BASE_URL"),
			MaxBytes: int64(envInt("UPLOAD_MAX_BYTES", 0)),
			MaxWidth: envInt("UPLOAD_MAX_WIDTH", 0),
			S3: blob.S3Config{
				Bucket:          os.Getenv("S3_BUCKET"),
				Region:          os.Getenv("S3_REGION"),
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
				PublicBaseURL:   os.Getenv("S3_PUBLIC_URL"),
				PathStyle:       envBool("S3_PATH_STYLE", false),
			},
		},
		Log: LogConfig{
			Level:      os.Getenv("LOG_LEVEL"),
			Format:     os.Getenv("LOG_FORMAT"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 30),
		},
	}
}

// calendar returns the booking calendar for the configured timezone.
func (c SiteConfig) calendar(log *slog.Logger) intake.Calendar {
	cal := intake.DefaultCalendar()
	if c.Timezone == "" {
		return cal
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn("unknown timezone, using UTC", "timezone", c.Timezone, "error", err)
		return cal
	}
	cal.Location = loc
	return cal
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return d
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from SiteConfig.Log.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithMailSender replaces the SMTP client, e.g. with a test recorder.
func WithMailSender(s mail.Sender) Option {
	return func(a *App) {
		a.mailSender = s
	}
}

// WithBlobStorage replaces the storage selected by SiteConfig.Blob.
func WithBlobStorage(s blob.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}

// WithCalendar replaces the booking calendar.
func WithCalendar(c intake.Calendar) Option {
	return func(a *App) {
		a.calendar = &c
	}
}
