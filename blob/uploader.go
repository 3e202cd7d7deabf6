package blob

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes = 10 << 20 // 10MB
	DefaultMaxWidth = 1600
	jpegQuality     = 82
)

// Uploader validates an image, downscales raster images wider than the
// maximum width, stores the result and returns its public URL.
type Uploader struct {
	storage  Storage
	maxBytes int64
	maxWidth int
	now      func() time.Time
}

type UploaderOption func(*Uploader)

func WithMaxBytes(n int64) UploaderOption { return func(u *Uploader) { u.maxBytes = n } }
func WithMaxWidth(w int) UploaderOption   { return func(u *Uploader) { u.maxWidth = w } }
func WithClock(now func() time.Time) UploaderOption {
	return func(u *Uploader) { u.now = now }
}

func NewUploader(s Storage, opts ...UploaderOption) *Uploader {
	u := &Uploader{storage: s, maxBytes: DefaultMaxBytes, maxWidth: DefaultMaxWidth, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	return u
}

// MaxBytes is the largest accepted upload.
func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// Upload stores r under purpose ("covers" or "content") and returns its URL.
// Errors are *UploadError.
func (u *Uploader) Upload(ctx context.Context, purpose, filename string, r io.Reader, size int64) (string, error) {
	if size > u.maxBytes {
		return "", &UploadError{Reason: "exceeds upload limit", Err: ErrTooLarge}
	}
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return "", &UploadError{Reason: "read", Err: err}
	}
	if int64(len(data)) > u.maxBytes {
		return "", &UploadError{Reason: "exceeds upload limit", Err: ErrTooLarge}
	}
	if len(data) == 0 {
		return "", &UploadError{Reason: "no data", Err: ErrEmpty}
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", &UploadError{Reason: mt.String(), Err: ErrUnsupportedType}
	}
	contentType := mt.String()

	if out, ok, err := u.processImage(data); err != nil {
		return "", &UploadError{Reason: "invalid image", Err: err}
	} else if ok {
		data = out
		contentType = "image/jpeg"
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}

	key := ObjectKey(purpose, filename, u.now())
	if err := u.storage.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", &UploadError{Reason: "storage", Err: err}
	}
	return u.storage.PublicURL(key), nil
}

// processImage re-encodes decodable raster images as JPEG, resizing them to
// maxWidth. ok is false for formats kept as uploaded, such as SVG.
func (u *Uploader) processImage(data []byte) (out []byte, ok bool, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, false, fmt.Errorf("bad dimensions %dx%d", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > u.maxWidth {
		newH := max(1, h*u.maxWidth/w)
		dst := image.NewRGBA(image.Rect(0, 0, u.maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), true, nil
}
