package inkwell

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmaren/inkwell/views"
)

// Config holds all configuration for an inkwell site: the public-facing
// values templates render plus build and serve settings.
type Config struct {
	Site views.SiteConfig `yaml:"-"`

	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:8080")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD and the feed

	ContentDir string `yaml:"content_dir"` // Markdown sources (default "content")
	StaticDir  string `yaml:"static_dir"`  // Site-owned assets (default "static")
	OutputDir  string `yaml:"output_dir"`  // Generated site (default "public")
	CachePath  string `yaml:"cache_path"`  // Render cache SQLite path (default "data/render.db")

	PostsPerFeed int `yaml:"posts_per_feed"` // Feed item cap (default 20)

	Addr string `yaml:"addr"` // Listen address (default ":8080")

	PreviewPassword string        `yaml:"-"` // Required for serve -preview -drafts
	SessionSecret   string        `yaml:"-"` // Required for serve -preview -drafts
	CookieSecure    bool          `yaml:"-"` // Set true for HTTPS
	PostCacheTTL    time.Duration `yaml:"-"` // Preview post cache TTL (default 5s)
}

// LoadConfig reads site.yml from path and applies environment overrides and
// defaults. A missing file is not an error; env and defaults still apply.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SITE_NAME"); v != "" {
		c.Name = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("SITE_DESCRIPTION"); v != "" {
		c.Description = v
	}
	if v := os.Getenv("SITE_AUTHOR"); v != "" {
		c.Author = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PREVIEW_PASSWORD"); v != "" {
		c.PreviewPassword = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if os.Getenv("COOKIE_SECURE") == "true" {
		c.CookieSecure = true
	}
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8080"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.CachePath == "" {
		c.CachePath = "data/render.db"
	}
	if c.PostsPerFeed == 0 {
		c.PostsPerFeed = 20
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Second
	}
	c.Site = views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
	}
}
