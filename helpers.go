package wealthwise

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/wealthwise/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FormatDate renders a publish date for display, or "" for drafts.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("January 2, 2006")
}

// RelatedPosts returns up to n other posts, in the order given.
func RelatedPosts(current content.BlogPost, posts []content.BlogPost, n int) []content.BlogPost {
	var related []content.BlogPost
	for _, p := range posts {
		if len(related) == n {
			break
		}
		if p.ID == current.ID || p.Slug == current.Slug {
			continue
		}
		related = append(related, p)
	}
	return related
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post content.BlogPost, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Excerpt,
		"url":         postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.PublishedAt != nil {
		data["datePublished"] = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !post.UpdatedAt.IsZero() {
		data["dateModified"] = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if post.CoverImage != "" {
		data["image"] = post.CoverImage
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
