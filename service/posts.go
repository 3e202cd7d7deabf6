package service

import (
	"context"
	"strings"

	"github.com/eringen/wealthwise/composer"
	"github.com/eringen/wealthwise/content"
)

// PostTable adds the public read paths to the post table.
type PostTable interface {
	Table[content.BlogPost, content.PostPatch]
	ListPublished(ctx context.Context) ([]content.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (content.BlogPost, error)
	GetBySlugAny(ctx context.Context, slug string) (content.BlogPost, error)
}

// Posts is the blog post service. It derives slugs from titles and reading
// times from the body.
type Posts struct {
	*Service[content.BlogPost, content.PostPatch]
	posts PostTable
}

func NewPosts(t PostTable, opts ...Option) *Posts {
	return &Posts{Service: New[content.BlogPost, content.PostPatch]("posts", t, opts...), posts: t}
}

// ListPublished returns published posts, newest first.
func (s *Posts) ListPublished(ctx context.Context) ([]content.BlogPost, error) {
	return read(ctx, s.cfg, "list published posts", func() ([]content.BlogPost, error) {
		return s.posts.ListPublished(ctx)
	})
}

// GetBySlug returns a published post.
func (s *Posts) GetBySlug(ctx context.Context, slug string) (content.BlogPost, error) {
	return read(ctx, s.cfg, "get post by slug", func() (content.BlogPost, error) {
		return s.posts.GetBySlug(ctx, slug)
	})
}

// GetBySlugAny returns a post whether or not it is published.
func (s *Posts) GetBySlugAny(ctx context.Context, slug string) (content.BlogPost, error) {
	return read(ctx, s.cfg, "get post by slug", func() (content.BlogPost, error) {
		return s.posts.GetBySlugAny(ctx, slug)
	})
}

// Create normalises the slug, falling back to the title, and computes the
// reading time when it is not given.
func (s *Posts) Create(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = p.Title
	}
	p.Slug = content.Slugify(p.Slug)
	if strings.TrimSpace(p.ReadingTime) == "" && strings.TrimSpace(p.Content) != "" {
		p.ReadingTime = composer.ReadingTime(p.Content)
	}
	return s.Service.Create(ctx, p)
}

// Update normalises a new slug and refreshes the reading time when the body
// changes without an explicit reading time.
func (s *Posts) Update(ctx context.Context, id string, patch content.PostPatch) (content.BlogPost, error) {
	if patch.Slug != nil {
		slug := content.Slugify(*patch.Slug)
		if slug == "" {
			return content.BlogPost{}, &content.ValidationError{Field: "slug", Reason: "is required"}
		}
		patch.Slug = &slug
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return content.BlogPost{}, &content.ValidationError{Field: "title", Reason: "is required"}
	}
	if patch.Content != nil && patch.ReadingTime == nil {
		rt := composer.ReadingTime(*patch.Content)
		patch.ReadingTime = &rt
	}
	return s.Service.Update(ctx, id, patch)
}
