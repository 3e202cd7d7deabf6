package wealthwise

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

// PublishedSource lists the posts visible on the public blog.
type PublishedSource interface {
	ListPublished(ctx context.Context) ([]content.BlogPost, error)
}

// PostCache is an in-memory cache of published blog posts with TTL. It is
// also invalidated by every post change it follows.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.BlogPost
	fetched time.Time
	ttl     time.Duration
	src     PublishedSource

	subMu sync.Mutex
	subs  []*feed.Subscription
}

// NewPostCache creates a PostCache backed by src.
func NewPostCache(src PublishedSource, ttl time.Duration) *PostCache {
	return &PostCache{src: src, ttl: ttl}
}

// Follow invalidates the cache on every event of hub.
func (c *PostCache) Follow(hub *feed.Hub[content.BlogPost]) {
	sub := hub.Subscribe(func(feed.Event[content.BlogPost]) { c.Invalidate() })
	c.subMu.Lock()
	c.subs = append(c.subs, sub)
	c.subMu.Unlock()
}

// Close stops following change feeds.
func (c *PostCache) Close() {
	c.subMu.Lock()
	subs := c.subs
	c.subs = nil
	c.subMu.Unlock()
	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.BlogPost, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.src.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []content.BlogPost{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}

// ListPosts returns published posts, newest first.
func (c *PostCache) ListPosts(ctx context.Context) ([]content.BlogPost, error) {
	return c.ensureLoaded(ctx)
}

// Latest returns at most n published posts.
func (c *PostCache) Latest(ctx context.Context, n int) ([]content.BlogPost, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(ctx context.Context, slug string) (content.BlogPost, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.BlogPost{}, content.ErrNotFound
}
