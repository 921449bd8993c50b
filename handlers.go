package inkwell

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/jmaren/inkwell/content"
	"github.com/jmaren/inkwell/views"
)

func (a *App) showDrafts(c echo.Context) bool {
	return a.drafts && isPreviewer(c)
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Posts(a.showDrafts(c))
	if err != nil {
		return err
	}
	tags, err := a.Cache.Tags(a.showDrafts(c))
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.Config.Site, posts, tags, ""))
}

func (a *App) handleTag(c echo.Context) error {
	tag, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		tag = c.Param("tag")
	}
	posts, err := a.Cache.Posts(a.showDrafts(c))
	if err != nil {
		return err
	}
	tags, err := a.Cache.Tags(a.showDrafts(c))
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.Config.Site, content.ByTag(posts, tag), tags, tag))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, bodyHTML, err := a.Cache.Get(slug, a.showDrafts(c))
	if err != nil {
		if IsNotFound(err) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site))
		}
		return err
	}
	posts, err := a.Cache.Posts(a.showDrafts(c))
	if err != nil {
		return err
	}
	related := views.FilterRelatedPosts(post, posts)
	return Render(c, views.Post(a.Config.Site, post, bodyHTML, related))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Posts(false)
	if err != nil {
		return err
	}
	fragments, err := a.Cache.Fragments()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteFeed(c.Response(), a.Config, posts, fragments)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Posts(false)
	if err != nil {
		return err
	}
	tags, err := a.Cache.Tags(false)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), a.Config.Site, posts, tags)
}

func (a *App) handleRobots(c echo.Context) error {
	return a.serveSiteOrEmbedded(c, "robots.txt", "embedded/robots.txt", "text/plain; charset=utf-8")
}

func (a *App) handleStylesheet(c echo.Context) error {
	return a.serveSiteOrEmbedded(c, filepath.Join("css", "site.css"), "embedded/site.css", "text/css; charset=utf-8")
}

// serveSiteOrEmbedded serves a file from the site's static dir when present,
// falling back to the embedded default — same precedence the build uses.
func (a *App) serveSiteOrEmbedded(c echo.Context, rel, embeddedPath, contentType string) error {
	path := filepath.Join(a.Config.StaticDir, rel)
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	data, err := EmbeddedAssets.ReadFile(embeddedPath)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (a *App) handleLoginForm(c echo.Context) error {
	if isPreviewer(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, views.Login(a.Config.Site, false, CsrfToken(c)))
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.PreviewPassword)) == 1 {
		if err := setPreviewSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, views.Login(a.Config.Site, true, CsrfToken(c)))
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.Config.Site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// renderNotFound prefers the generated 404.html so static and preview mode
// show the same page.
func (a *App) renderNotFound(c echo.Context) {
	if !a.preview {
		page := filepath.Join(a.Config.OutputDir, "404.html")
		if data, err := os.ReadFile(page); err == nil {
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
			c.Response().WriteHeader(http.StatusNotFound)
			c.Response().Write(data)
			return
		}
	}
	_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site))
}
