// Package inkwell compiles a directory of Markdown blog posts into a static
// site and serves the result. The Markdown conversion is goldmark and the
// HTTP layer is echo; inkwell is the pipeline between them: the content
// model, the render cache, the layout views, and the build and serve wiring.
package inkwell

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// App is the inkwell HTTP server. It serves the generated output tree in
// static mode, or renders pages from source per request in preview mode.
type App struct {
	Config Config
	Echo   *echo.Echo
	Cache  *PostCache

	preview      bool
	drafts       bool
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// Option configures additional App behavior.
type Option func(*App)

// WithPreview switches the server to preview mode: pages render from the
// content directory on each request instead of from the output tree.
func WithPreview() Option {
	return func(a *App) { a.preview = true }
}

// WithDrafts exposes draft posts in preview mode behind a session login.
// Implies WithPreview.
func WithDrafts() Option {
	return func(a *App) {
		a.preview = true
		a.drafts = true
	}
}

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// New creates an inkwell App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.preview {
		a.Cache = NewPostCache(cfg.ContentDir, cfg.PostCacheTTL)
	}
	return a
}

// Start initializes middleware and routes and starts the server.
func (a *App) Start() error {
	if a.drafts {
		if a.Config.PreviewPassword == "" {
			return fmt.Errorf("inkwell: PreviewPassword is required to serve drafts")
		}
		if a.Config.SessionSecret == "" {
			return fmt.Errorf("inkwell: SessionSecret is required to serve drafts")
		}
		a.loginLimiter = NewLoginLimiter(5, loginWindow)
	}

	a.Echo.HideBanner = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	mode := "static"
	if a.preview {
		mode = "preview"
	}
	log.Printf("inkwell: serving %s on %s (%s mode)", a.Config.Name, a.Config.Addr, mode)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	if !a.preview {
		e.Static("/", a.Config.OutputDir)
		return
	}

	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/css/site.css", a.handleStylesheet)
	if a.drafts {
		e.GET("/preview/login", a.handleLoginForm)
		e.POST("/preview/login", a.handleLogin)
		e.POST("/preview/logout", a.handleLogout)
	}
	e.Static("/", a.Config.StaticDir)
}
