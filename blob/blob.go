// Package blob stores uploaded images and hands back their public URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage is an object store with public read access.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PublicURL(key string) string
}

var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmpty           = errors.New("empty file")
)

// UploadError describes a failed upload. Err is one of the sentinels above or
// the storage failure.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return "upload: " + e.Reason
	}
	return fmt.Sprintf("upload: %s: %v", e.Reason, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reKeyUnsafe = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// SanitizeFilename turns whitespace runs into hyphens, drops every character
// outside [a-zA-Z0-9.-] and lowercases the result.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = reSpaces.ReplaceAllString(strings.TrimSpace(name), "-")
	name = reKeyUnsafe.ReplaceAllString(name, "")
	name = strings.Trim(strings.ToLower(name), ".")
	if name == "" {
		return "file"
	}
	return name
}

// ObjectKey builds <purpose>/<year>/<month>/<unix-ms>-<random>-<filename>.
func ObjectKey(purpose, filename string, now time.Time) string {
	purpose = SanitizeFilename(purpose)
	now = now.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%d-%s-%s",
		purpose, now.Year(), int(now.Month()), now.UnixMilli(), randomToken(), SanitizeFilename(filename))
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
