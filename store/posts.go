package store

import (
	"context"
	"strings"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

var postColumns = []string{
	"id", "slug", "title", "excerpt", "content", "cover_image", "reading_time",
	"author", "published_at", "created_at", "updated_at",
}

// Drafts first, then newest publication first.
const postOrder = "(published_at IS NULL) DESC, published_at DESC, created_at DESC"

// Posts is the blog_posts table.
type Posts struct {
	table[content.BlogPost]
}

func newPosts(d *DB, local bool) *Posts {
	return &Posts{table[content.BlogPost]{
		db: d, name: "blog_posts", columns: postColumns,
		scan: scanPost, hub: feed.NewHub[content.BlogPost](), local: local,
	}}
}

func scanPost(r rowScanner) (content.BlogPost, error) {
	var p content.BlogPost
	var published, created, updated scanTime
	err := r.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.CoverImage,
		&p.ReadingTime, &p.Author, &published, &created, &updated)
	if err != nil {
		return content.BlogPost{}, err
	}
	p.PublishedAt = published.ptr()
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time
	return p, nil
}

// Changes is the feed of committed post changes.
func (t *Posts) Changes() *feed.Hub[content.BlogPost] { return t.hub }

// List returns every post, drafts included.
func (t *Posts) List(ctx context.Context) ([]content.BlogPost, error) {
	return t.query(ctx, "list posts", "", postOrder)
}

// ListPublished returns posts with a publication time, newest first.
func (t *Posts) ListPublished(ctx context.Context) ([]content.BlogPost, error) {
	return t.query(ctx, "list published posts", "published_at IS NOT NULL", "published_at DESC, created_at DESC")
}

func (t *Posts) Get(ctx context.Context, id string) (content.BlogPost, error) {
	return t.queryRow(ctx, "get post", "id = ?", id)
}

// GetBySlug returns a published post.
func (t *Posts) GetBySlug(ctx context.Context, slug string) (content.BlogPost, error) {
	return t.queryRow(ctx, "get post by slug", "slug = ? AND published_at IS NOT NULL", slug)
}

// GetBySlugAny returns a post regardless of its publication state.
func (t *Posts) GetBySlugAny(ctx context.Context, slug string) (content.BlogPost, error) {
	return t.queryRow(ctx, "get post by slug", "slug = ?", slug)
}

// Insert stores p under a fresh id. ID and timestamps on p are ignored.
func (t *Posts) Insert(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	if err := p.Validate(); err != nil {
		return content.BlogPost{}, err
	}
	ts := formatTime(now())
	if strings.TrimSpace(p.Author) == "" {
		p.Author = content.DefaultAuthor
	}
	if strings.TrimSpace(p.ReadingTime) == "" {
		p.ReadingTime = content.DefaultReadingTime
	}
	return t.insert(ctx, "insert post", []any{
		newID(), p.Slug, p.Title, p.Excerpt, p.Content, p.CoverImage, p.ReadingTime,
		p.Author, nullableTime(p.PublishedAt), ts, ts,
	})
}

func (t *Posts) Update(ctx context.Context, id string, p content.PostPatch) (content.BlogPost, error) {
	var s setter
	setIf(&s, "slug", p.Slug)
	setIf(&s, "title", p.Title)
	setIf(&s, "excerpt", p.Excerpt)
	setIf(&s, "content", p.Content)
	setIf(&s, "cover_image", p.CoverImage)
	setIf(&s, "reading_time", p.ReadingTime)
	setIf(&s, "author", p.Author)
	switch {
	case p.ClearPublished:
		s.set("published_at", nil)
	case p.PublishedAt != nil:
		s.set("published_at", formatTime(*p.PublishedAt))
	}
	return t.update(ctx, "update post", id, s)
}

func (t *Posts) Delete(ctx context.Context, id string) (bool, error) {
	return t.delete(ctx, "delete post", id)
}
