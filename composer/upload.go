package composer

import (
	"context"
	"fmt"
	"io"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, purpose, filename string, r io.Reader, size int64) (string, error)
}

// ContentPurpose is the object-key prefix for images placed inside a post body.
const ContentPurpose = "content"

// UploadImage uploads r for the image block id and stores the resulting URL
// as the block content. On failure the block is left empty and other blocks
// are untouched.
func (c *Composer) UploadImage(ctx context.Context, id string, up Uploader, filename string, r io.Reader, size int64) (string, error) {
	b, ok := c.block(id)
	if !ok {
		return "", ErrNoBlock
	}
	if b.Type != Image {
		return "", fmt.Errorf("%w: block %s is %s", ErrBlockType, id, b.Type)
	}
	url, err := up.Upload(ctx, ContentPurpose, filename, r, size)
	if err != nil {
		_ = c.UpdateBlockContent(id, "")
		return "", err
	}
	if err := c.UpdateBlockContent(id, url); err != nil {
		// Deleted while the upload was in flight.
		return "", err
	}
	return url, nil
}
