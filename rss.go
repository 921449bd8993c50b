package inkwell

import (
	"fmt"
	"io"
	"time"

	"github.com/gorilla/feeds"

	"github.com/jmaren/inkwell/content"
	"github.com/jmaren/inkwell/views"
)

// WriteFeed writes the RSS feed for the given posts. posts must already be
// sorted newest-first and filtered to published; fragments supplies the
// rendered body HTML keyed by slug (entries may be missing, in which case the
// item carries only the summary).
func WriteFeed(w io.Writer, cfg Config, posts []content.Post, fragments map[string]string) error {
	feed := &feeds.Feed{
		Title:       cfg.Name,
		Link:        &feeds.Link{Href: cfg.URL},
		Description: cfg.Description,
	}
	if cfg.Author != "" {
		feed.Author = &feeds.Author{Name: cfg.Author}
	}
	if len(posts) > 0 {
		if t, err := time.Parse(content.DateFormat, posts[0].Date); err == nil {
			feed.Created = t
		}
	}

	max := cfg.PostsPerFeed
	if max <= 0 || max > len(posts) {
		max = len(posts)
	}
	for _, p := range posts[:max] {
		postURL := views.PostURL(cfg.Site, p)
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: postURL},
			Id:          postURL,
			Description: p.Summary,
			Content:     fragments[p.Slug],
		}
		if t, err := time.Parse(content.DateFormat, p.Date); err == nil {
			item.Created = t
		}
		feed.Items = append(feed.Items, item)
	}

	if err := feed.WriteRss(w); err != nil {
		return fmt.Errorf("write rss: %w", err)
	}
	return nil
}
