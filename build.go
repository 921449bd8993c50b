package inkwell

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"

	"github.com/jmaren/inkwell/content"
	"github.com/jmaren/inkwell/markdown"
	"github.com/jmaren/inkwell/views"
)

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	// Strict turns link-check warnings into a build failure.
	Strict bool
	// NoCache skips render cache lookups and re-renders every post.
	NoCache bool
}

// BuildResult reports what a build did.
type BuildResult struct {
	PagesBuilt      int
	FragmentsReused int
	AssetsCopied    int
	ImagesResized   int
	CachePruned     int
	Warnings        []string
	Duration        time.Duration
}

// Builder runs the one-shot compile from Markdown sources to the static
// output tree.
type Builder struct {
	cfg   Config
	cache *RenderCache
}

// NewBuilder creates a Builder backed by the given render cache. cache may be
// nil, in which case every post is rendered fresh.
func NewBuilder(cfg Config, cache *RenderCache) *Builder {
	return &Builder{cfg: cfg, cache: cache}
}

// Build compiles the site. It is synchronous and single-pass: the first
// invalid post halts the build with an error naming the file.
func (b *Builder) Build(opts BuildOptions) (*BuildResult, error) {
	start := time.Now()
	res := &BuildResult{}
	cfg := b.cfg

	all, err := content.Load(os.DirFS(cfg.ContentDir), ".")
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	posts := content.Published(all)
	tags := content.Tags(posts)

	fragments, err := b.renderFragments(posts, opts, res)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// Pages.
	if err := b.writePage("index.html", views.Home(cfg.Site, posts, tags, ""), res); err != nil {
		return nil, err
	}
	if err := b.writePage("404.html", views.NotFound(cfg.Site), res); err != nil {
		return nil, err
	}
	for _, p := range posts {
		related := views.FilterRelatedPosts(p, posts)
		page := views.Post(cfg.Site, p, fragments[p.Slug], related)
		if err := b.writePage(filepath.Join("blog", p.Slug, "index.html"), page, res); err != nil {
			return nil, err
		}
	}
	for _, tag := range tags {
		page := views.Home(cfg.Site, content.ByTag(posts, tag), tags, tag)
		if err := b.writePage(filepath.Join("tags", tag, "index.html"), page, res); err != nil {
			return nil, err
		}
	}

	// Feed, sitemap, robots.
	if err := b.writeFile("feed.xml", func(f *os.File) error {
		return WriteFeed(f, cfg, posts, fragments)
	}); err != nil {
		return nil, err
	}
	if err := b.writeFile("sitemap.xml", func(f *os.File) error {
		return WriteSitemap(f, cfg.Site, posts, tags)
	}); err != nil {
		return nil, err
	}
	if err := b.writeRobots(); err != nil {
		return nil, err
	}

	// Static assets, then the embedded stylesheet if the site ships none.
	copied, resized, err := CopyAssets(cfg.StaticDir, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("copy assets: %w", err)
	}
	res.AssetsCopied = copied
	res.ImagesResized = resized
	if err := b.writeDefaultStylesheet(); err != nil {
		return nil, err
	}

	if b.cache != nil {
		keep := make(map[string]struct{}, len(posts))
		for _, p := range posts {
			keep[p.Slug] = struct{}{}
		}
		pruned, err := b.cache.Prune(keep)
		if err != nil {
			return nil, fmt.Errorf("prune render cache: %w", err)
		}
		res.CachePruned = pruned
	}

	warnings, err := CheckLinks(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("link check: %w", err)
	}
	res.Warnings = warnings
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}
	if opts.Strict && len(warnings) > 0 {
		return res, fmt.Errorf("link check: %d broken internal reference(s)", len(warnings))
	}

	res.Duration = time.Since(start)
	return res, nil
}

// renderFragments converts each post body to HTML, reusing cached renders
// when the source checksum matches.
func (b *Builder) renderFragments(posts []content.Post, opts BuildOptions, res *BuildResult) (map[string]string, error) {
	fragments := make(map[string]string, len(posts))
	for _, p := range posts {
		if b.cache != nil && !opts.NoCache {
			if html, err := b.cache.Lookup(p.Slug, p.Checksum); err == nil {
				fragments[p.Slug] = html
				res.FragmentsReused++
				continue
			} else if !IsNotFound(err) {
				return nil, fmt.Errorf("render cache lookup %s: %w", p.Slug, err)
			}
		}
		html, err := markdown.Render(p.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Source, err)
		}
		fragments[p.Slug] = html
		if b.cache != nil {
			if err := b.cache.Save(p.Slug, p.Checksum, html); err != nil {
				return nil, fmt.Errorf("render cache save %s: %w", p.Slug, err)
			}
		}
	}
	return fragments, nil
}

func (b *Builder) writePage(rel string, page templ.Component, res *BuildResult) error {
	err := b.writeFile(rel, func(f *os.File) error {
		return page.Render(context.Background(), f)
	})
	if err != nil {
		return err
	}
	res.PagesBuilt++
	return nil
}

func (b *Builder) writeFile(rel string, write func(*os.File) error) error {
	path := filepath.Join(b.cfg.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// writeRobots prefers a site-owned robots.txt from the static dir; otherwise
// the embedded default is used.
func (b *Builder) writeRobots() error {
	if _, err := os.Stat(filepath.Join(b.cfg.StaticDir, "robots.txt")); err == nil {
		return nil // copied with the rest of the static assets
	}
	data, err := EmbeddedAssets.ReadFile("embedded/robots.txt")
	if err != nil {
		return err
	}
	return b.writeFile("robots.txt", func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// writeDefaultStylesheet ships the embedded stylesheet unless the site
// provides its own css/site.css.
func (b *Builder) writeDefaultStylesheet() error {
	if _, err := os.Stat(filepath.Join(b.cfg.StaticDir, "css", "site.css")); err == nil {
		return nil
	}
	data, err := EmbeddedAssets.ReadFile("embedded/site.css")
	if err != nil {
		return err
	}
	return b.writeFile(filepath.Join("css", "site.css"), func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}
