package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jmaren/inkwell/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
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

// SiteURL returns the site's base URL with a trailing slash.
func SiteURL(cfg SiteConfig) string {
	return buildURL(cfg.URL)
}

// PostURL returns the absolute URL of a post.
func PostURL(cfg SiteConfig, post content.Post) string {
	return buildURL(cfg.URL, "blog", post.Slug)
}

// TagURL returns the absolute URL of a tag index page. The tag goes into
// the URL path unescaped; url.URL encodes it exactly once on String.
func TagURL(cfg SiteConfig, tag string) string {
	return buildURL(cfg.URL, "tags", tag)
}

// FilterRelatedPosts returns posts that share at least one tag with the
// current post.
func FilterRelatedPosts(current content.Post, posts []content.Post) []content.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tagSet[t] = struct{}{}
	}
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// FormatDate renders a YYYY-MM-DD front-matter date for humans. Unparseable
// values fall back to the raw string rather than failing a page render.
func FormatDate(date string) string {
	t, err := time.Parse(content.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post) string {
	postURL := PostURL(cfg, post)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
