// Package views renders the site's pages as templ components. Components are
// written by hand against an io.Writer; the build pipeline renders them to
// files and preview mode renders them straight into HTTP responses.
package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/jmaren/inkwell/content"
)

// Layout wraps a body component with the document shell: head metadata,
// OpenGraph tags, JSON-LD, header navigation, and footer.
func Layout(cfg SiteConfig, meta PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		// Assemble the page in memory and flush once; buffer writes cannot
		// fail, so only the body render and the final write need checking.
		var buf bytes.Buffer
		w := &buf
		title := meta.Title
		if title == "" {
			title = cfg.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		write(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		write(w, "<meta charset=\"utf-8\">\n")
		write(w, "<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		write(w, "<title>"+html.EscapeString(title)+"</title>\n")
		if desc != "" {
			write(w, "<meta name=\"description\" content=\""+html.EscapeString(desc)+"\">\n")
		}
		if meta.URL != "" {
			write(w, "<link rel=\"canonical\" href=\""+html.EscapeString(meta.URL)+"\">\n")
			write(w, "<meta property=\"og:url\" content=\""+html.EscapeString(meta.URL)+"\">\n")
		}
		write(w, "<meta property=\"og:title\" content=\""+html.EscapeString(title)+"\">\n")
		write(w, "<meta property=\"og:type\" content=\""+html.EscapeString(ogType)+"\">\n")
		if desc != "" {
			write(w, "<meta property=\"og:description\" content=\""+html.EscapeString(desc)+"\">\n")
		}
		if meta.Image != "" {
			write(w, "<meta property=\"og:image\" content=\""+html.EscapeString(meta.Image)+"\">\n")
		}
		write(w, "<link rel=\"alternate\" type=\"application/rss+xml\" title=\""+html.EscapeString(cfg.Name)+"\" href=\"/feed.xml\">\n")
		write(w, "<link rel=\"stylesheet\" href=\"/css/site.css\">\n")
		if jsonLD != "" {
			write(w, "<script type=\"application/ld+json\">"+jsonLD+"</script>\n")
		}
		write(w, "</head>\n<body>\n")
		write(w, "<header class=\"site-header\"><nav>")
		write(w, "<a class=\"site-title\" href=\"/\">"+html.EscapeString(cfg.Name)+"</a>")
		write(w, "<a href=\"/feed.xml\">RSS</a>")
		write(w, "</nav></header>\n<main>\n")

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		write(w, "</main>\n<footer class=\"site-footer\">")
		if cfg.Author != "" {
			write(w, "<p>"+html.EscapeString(cfg.Author)+"</p>")
		}
		write(w, "</footer>\n</body>\n</html>\n")

		_, err := out.Write(buf.Bytes())
		return err
	})
}

// Home renders the post index, optionally filtered to a tag.
func Home(cfg SiteConfig, posts []content.Post, tags []string, activeTag string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if activeTag != "" {
			write(w, "<h1>Posts tagged &ldquo;"+html.EscapeString(activeTag)+"&rdquo;</h1>\n")
		} else {
			write(w, "<h1>"+html.EscapeString(cfg.Name)+"</h1>\n")
			if cfg.Description != "" {
				write(w, "<p class=\"site-description\">"+html.EscapeString(cfg.Description)+"</p>\n")
			}
		}
		if len(tags) > 0 {
			write(w, "<ul class=\"tag-list\">")
			for _, t := range tags {
				write(w, "<li><a class=\""+tagClass(t == activeTag)+"\" href=\"/tags/"+url.PathEscape(t)+"/\">"+html.EscapeString(t)+"</a></li>")
			}
			write(w, "</ul>\n")
		}
		write(w, "<ul class=\"post-list\">\n")
		for _, p := range posts {
			write(w, "<li class=\"post-item\">")
			write(w, "<time datetime=\""+html.EscapeString(p.Date)+"\">"+html.EscapeString(FormatDate(p.Date))+"</time> ")
			write(w, "<a href=\""+html.EscapeString(p.Link)+"\">"+html.EscapeString(p.Title)+"</a>")
			if p.Draft {
				write(w, " <span class=\"draft-badge\">draft</span>")
			}
			if p.Summary != "" {
				write(w, "<p class=\"post-summary\">"+html.EscapeString(p.Summary)+"</p>")
			}
			write(w, "</li>\n")
		}
		if len(posts) == 0 {
			write(w, "<li class=\"post-item post-item-empty\">Nothing here yet.</li>\n")
		}
		write(w, "</ul>\n")
		return nil
	})

	meta := PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         buildURL(cfg.URL),
		OGType:      "website",
	}
	if activeTag != "" {
		meta.Title = activeTag + " — " + cfg.Name
		meta.URL = TagURL(cfg, activeTag)
	}
	return Layout(cfg, meta, WebsiteJsonLD(cfg), body)
}

// Post renders a single post page. bodyHTML is the pre-rendered Markdown
// fragment for the post body.
func Post(cfg SiteConfig, post content.Post, bodyHTML string, related []content.Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write(w, "<article class=\"post\">\n<header>\n")
		write(w, "<h1>"+html.EscapeString(post.Title)+"</h1>\n")
		write(w, "<time datetime=\""+html.EscapeString(post.Date)+"\">"+html.EscapeString(FormatDate(post.Date))+"</time>\n")
		if post.Draft {
			write(w, "<span class=\"draft-badge\">draft</span>\n")
		}
		if len(post.Tags) > 0 {
			write(w, "<ul class=\"tag-list\">")
			for _, t := range post.Tags {
				write(w, "<li><a class=\""+tagClass(false)+"\" href=\"/tags/"+url.PathEscape(t)+"/\">"+html.EscapeString(t)+"</a></li>")
			}
			write(w, "</ul>\n")
		}
		write(w, "</header>\n<div class=\"post-body\">\n")
		// Already HTML; escaping here would double-encode the fragment.
		write(w, bodyHTML)
		write(w, "\n</div>\n</article>\n")
		if len(related) > 0 {
			write(w, "<aside class=\"related\">\n<h2>Related posts</h2>\n<ul>\n")
			for _, p := range related {
				write(w, "<li><a href=\""+html.EscapeString(p.Link)+"\">"+html.EscapeString(p.Title)+"</a></li>\n")
			}
			write(w, "</ul>\n</aside>\n")
		}
		return nil
	})

	meta := PageMeta{
		Title:       post.Title + " — " + cfg.Name,
		Description: post.Summary,
		URL:         PostURL(cfg, post),
		OGType:      "article",
		Image:       post.Image,
	}
	return Layout(cfg, meta, BlogPostingJsonLD(cfg, post), body)
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write(w, "<h1>Page not found</h1>\n<p>The page you are looking for does not exist. <a href=\"/\">Back to the front page.</a></p>\n")
		return nil
	})
	return Layout(cfg, PageMeta{Title: "Not found — " + cfg.Name}, "", body)
}

// ServerError renders the 500 page used by the preview server.
func ServerError(cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write(w, "<h1>Something went wrong</h1>\n<p>Try again in a moment.</p>\n")
		return nil
	})
	return Layout(cfg, PageMeta{Title: "Error — " + cfg.Name}, "", body)
}

// Login renders the preview drafts login form.
func Login(cfg SiteConfig, showError bool, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write(w, "<h1>Preview login</h1>\n")
		if showError {
			write(w, "<p class=\"login-error\">Wrong password.</p>\n")
		}
		write(w, "<form method=\"post\" action=\"/preview/login\">\n")
		write(w, "<input type=\"hidden\" name=\"_csrf\" value=\""+html.EscapeString(csrfToken)+"\">\n")
		write(w, "<input type=\"password\" name=\"password\" autofocus>\n")
		write(w, "<button type=\"submit\">Log in</button>\n</form>\n")
		return nil
	})
	return Layout(cfg, PageMeta{Title: "Login — " + cfg.Name}, "", body)
}

func tagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

func write(w io.Writer, s string) {
	io.WriteString(w, s)
}
