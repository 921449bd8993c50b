package inkwell

import (
	"encoding/xml"
	"io"

	"github.com/jmaren/inkwell/content"
	"github.com/jmaren/inkwell/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap urlset covering the front page, every post,
// and every tag index.
func WriteSitemap(w io.Writer, cfg views.SiteConfig, posts []content.Post, tags []string) error {
	urls := []sitemapURL{{Loc: views.SiteURL(cfg)}}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.PostURL(cfg, p),
			LastMod: p.Date,
		})
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: views.TagURL(cfg, t)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}
