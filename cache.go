package inkwell

import (
	"os"
	"sync"
	"time"

	"github.com/jmaren/inkwell/content"
	"github.com/jmaren/inkwell/markdown"
)

// PostCache backs the preview server: posts are loaded from the content
// directory and rendered on demand, then held for a short TTL so a page
// refresh picks up edits without re-reading every file per request.
type PostCache struct {
	mu         sync.RWMutex
	posts      []content.Post // drafts included
	fragments  map[string]string
	fetched    time.Time
	ttl        time.Duration
	contentDir string
}

// NewPostCache creates a PostCache over the given content directory.
func NewPostCache(contentDir string, ttl time.Duration) *PostCache {
	return &PostCache{contentDir: contentDir, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.fragments = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := content.Load(os.DirFS(c.contentDir), ".")
	if err != nil {
		return err
	}
	fragments := make(map[string]string, len(posts))
	for _, p := range posts {
		html, err := markdown.Render(p.Body)
		if err != nil {
			return err
		}
		fragments[p.Slug] = html
	}
	c.posts = posts
	c.fragments = fragments
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached state after ensuring freshness. It tries a
// read lock first; only takes a write lock when a reload is needed.
func (c *PostCache) ensureLoaded() ([]content.Post, map[string]string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, fragments := c.posts, c.fragments
		c.mu.RUnlock()
		return posts, fragments, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.fragments, nil
}

// Posts returns cached posts, drafts included only when requested.
func (c *PostCache) Posts(includeDrafts bool) ([]content.Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if includeDrafts {
		return posts, nil
	}
	return content.Published(posts), nil
}

// Tags returns all tags across the same post set Posts would return, so a
// draft's tags show up in the tag list exactly when the draft itself does.
func (c *PostCache) Tags(includeDrafts bool) ([]string, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if includeDrafts {
		return content.Tags(posts), nil
	}
	return content.Tags(content.Published(posts)), nil
}

// Fragments returns the rendered body HTML for every cached post, keyed by
// slug.
func (c *PostCache) Fragments() (map[string]string, error) {
	_, fragments, err := c.ensureLoaded()
	return fragments, err
}

// Get returns a post and its rendered body HTML by slug. Draft posts are
// only returned when includeDrafts is set.
func (c *PostCache) Get(slug string, includeDrafts bool) (content.Post, string, error) {
	posts, fragments, err := c.ensureLoaded()
	if err != nil {
		return content.Post{}, "", err
	}
	for _, p := range posts {
		if p.Slug != slug {
			continue
		}
		if p.Draft && !includeDrafts {
			break
		}
		return p, fragments[p.Slug], nil
	}
	return content.Post{}, "", ErrNotFound
}
