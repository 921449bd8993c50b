package inkwell

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CheckLinks scans every generated HTML file under outputDir and reports
// internal hrefs and image sources that resolve to nothing in the output
// tree. External URLs, anchors, and mailto links are ignored. Returns one
// warning string per broken reference.
func CheckLinks(outputDir string) ([]string, error) {
	var warnings []string

	err := filepath.WalkDir(outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		rel, _ := filepath.Rel(outputDir, path)
		check := func(attr string) func(int, *goquery.Selection) {
			return func(_ int, s *goquery.Selection) {
				ref, ok := s.Attr(attr)
				if !ok || !isInternal(ref) {
					return
				}
				if !targetExists(outputDir, ref) {
					warnings = append(warnings, fmt.Sprintf("%s: broken internal reference %q", rel, ref))
				}
			}
		}
		doc.Find("a[href]").Each(check("href"))
		doc.Find("img[src]").Each(check("src"))
		doc.Find("link[href]").Each(check("href"))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(warnings)
	return warnings, nil
}

// isInternal reports whether ref is a root-relative link into this site.
func isInternal(ref string) bool {
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return false
	}
	return true
}

// targetExists resolves a root-relative ref against the output tree. A
// directory target counts when it holds an index.html.
func targetExists(outputDir, ref string) bool {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	// Hrefs are percent-encoded; the output tree is not.
	if decoded, err := url.PathUnescape(ref); err == nil {
		ref = decoded
	}
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" {
		ref = "index.html"
	}
	path := filepath.Join(outputDir, filepath.FromSlash(ref))

	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return true
		}
		_, err = os.Stat(filepath.Join(path, "index.html"))
		return err == nil
	}
	return false
}
