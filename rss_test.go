package inkwell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jmaren/inkwell/content"
)

func feedConfig() Config {
	cfg := Config{
		Name:        "Feed Blog",
		URL:         "https://feed.example.com",
		Description: "Feed description",
		Author:      "Author Name",
	}
	cfg.setDefaults()
	return cfg
}

func TestWriteFeed(t *testing.T) {
	cfg := feedConfig()
	posts := []content.Post{
		{Slug: "newest", Title: "Newest Post", Date: "2024-06-01", Summary: "The newest."},
		{Slug: "older", Title: "Older Post", Date: "2024-01-01", Summary: "The older."},
	}
	fragments := map[string]string{
		"newest": "<p>Newest body</p>",
		"older":  "<p>Older body</p>",
	}

	var buf bytes.Buffer
	if err := WriteFeed(&buf, cfg, posts, fragments); err != nil {
		t.Fatalf("WriteFeed failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<rss") {
		t.Fatalf("not an rss document: %q", out)
	}
	if !strings.Contains(out, "<title>Feed Blog</title>") {
		t.Errorf("missing channel title: %q", out)
	}
	if !strings.Contains(out, "Newest Post") || !strings.Contains(out, "Older Post") {
		t.Errorf("missing items: %q", out)
	}
	if !strings.Contains(out, "https://feed.example.com/blog/newest/") {
		t.Errorf("missing item link: %q", out)
	}
	if !strings.Contains(out, "Newest body") {
		t.Errorf("missing item content: %q", out)
	}
}

func TestWriteFeedCapsItems(t *testing.T) {
	cfg := feedConfig()
	cfg.PostsPerFeed = 1
	posts := []content.Post{
		{Slug: "a", Title: "Post A", Date: "2024-06-01"},
		{Slug: "b", Title: "Post B", Date: "2024-05-01"},
	}

	var buf bytes.Buffer
	if err := WriteFeed(&buf, cfg, posts, nil); err != nil {
		t.Fatalf("WriteFeed failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Post A") {
		t.Errorf("newest post should be in the capped feed: %q", out)
	}
	if strings.Contains(out, "Post B") {
		t.Errorf("feed should be capped to %d item(s): %q", cfg.PostsPerFeed, out)
	}
}

func TestWriteSitemap(t *testing.T) {
	cfg := feedConfig()
	posts := []content.Post{
		{Slug: "hello", Title: "Hello", Date: "2024-03-05"},
	}

	var buf bytes.Buffer
	if err := WriteSitemap(&buf, cfg.Site, posts, []string{"go"}); err != nil {
		t.Fatalf("WriteSitemap failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Errorf("missing urlset namespace: %q", out)
	}
	if !strings.Contains(out, "<loc>https://feed.example.com/blog/hello/</loc>") {
		t.Errorf("missing post loc: %q", out)
	}
	if !strings.Contains(out, "<lastmod>2024-03-05</lastmod>") {
		t.Errorf("missing lastmod: %q", out)
	}
	if !strings.Contains(out, "<loc>https://feed.example.com/tags/go/</loc>") {
		t.Errorf("missing tag loc: %q", out)
	}
}
