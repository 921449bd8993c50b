// Package content loads blog posts from a directory of Markdown files with
// YAML front matter. Posts are immutable once published: the loader records a
// checksum of each source file, and an edit produces a new checksum (and
// therefore a new cached render downstream).
package content

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// DateFormat is the front-matter date layout.
const DateFormat = "2006-01-02"

// Post is the core content type. Body holds raw Markdown; rendering happens
// elsewhere.
type Post struct {
	Slug     string
	Title    string
	Date     string
	Tags     []string
	Summary  string
	Image    string
	Draft    bool
	Body     string
	Link     string
	Checksum string
	Source   string
}

// frontMatter mirrors the YAML block at the top of a post file.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Slug    string   `yaml:"slug"`
	Image   string   `yaml:"image"`
	Draft   bool     `yaml:"draft"`
}

// Parse builds a Post from a single source file's bytes. path is used for
// error messages and as the slug fallback.
func Parse(path string, src []byte) (Post, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return Post{}, fmt.Errorf("%s: parse front matter: %w", path, err)
	}

	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, fmt.Errorf("%s: missing title", path)
	}
	if fm.Date == "" {
		return Post{}, fmt.Errorf("%s: missing date", path)
	}
	if _, err := time.Parse(DateFormat, fm.Date); err != nil {
		return Post{}, fmt.Errorf("%s: invalid date %q (want YYYY-MM-DD)", path, fm.Date)
	}

	slug := fm.Slug
	if slug == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		slug = Slugify(base)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return Post{}, fmt.Errorf("%s: cannot derive a slug", path)
	}

	sum := sha256.Sum256(src)

	return Post{
		Slug:     slug,
		Title:    fm.Title,
		Date:     fm.Date,
		Tags:     normalizeTags(fm.Tags),
		Summary:  strings.TrimSpace(fm.Summary),
		Image:    fm.Image,
		Draft:    fm.Draft,
		Body:     string(bytes.TrimSpace(body)),
		Link:     "/blog/" + slug + "/",
		Checksum: hex.EncodeToString(sum[:]),
		Source:   path,
	}, nil
}

// Load walks dir in fsys for .md files and returns all posts, drafts
// included, sorted by date descending (ties break by slug so output order is
// deterministic). The first invalid file halts the load.
func Load(fsys fs.FS, dir string) ([]Post, error) {
	var posts []Post
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		src, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		post, err := Parse(path, src)
		if err != nil {
			return err
		}
		if prev, ok := seen[post.Slug]; ok {
			return fmt.Errorf("%s: duplicate slug %q (already used by %s)", path, post.Slug, prev)
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// Published filters out drafts.
func Published(posts []Post) []Post {
	var out []Post
	for _, p := range posts {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns a sorted, deduplicated slice of all tags from the given posts.
func Tags(posts []Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ByTag filters posts to those carrying the given tag.
func ByTag(posts []Post, tag string) []Post {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var out []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Slugify converts a title or filename to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
