package content

import (
	"strings"
	"testing"
	"testing/fstest"
)

const samplePost = `---
title: Test Post
date: 2024-01-15
tags: [Go, testing]
summary: A test post summary
---

# Heading

Body text here.
`

func TestParse(t *testing.T) {
	post, err := Parse("posts/test-post.md", []byte(samplePost))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if post.Slug != "test-post" {
		t.Errorf("slug = %q, want %q", post.Slug, "test-post")
	}
	if post.Title != "Test Post" {
		t.Errorf("title = %q, want %q", post.Title, "Test Post")
	}
	if post.Date != "2024-01-15" {
		t.Errorf("date = %q, want %q", post.Date, "2024-01-15")
	}
	if len(post.Tags) != 2 || post.Tags[0] != "go" || post.Tags[1] != "testing" {
		t.Errorf("tags = %v, want lowercased [go testing]", post.Tags)
	}
	if post.Link != "/blog/test-post/" {
		t.Errorf("link = %q, want %q", post.Link, "/blog/test-post/")
	}
	if !strings.Contains(post.Body, "Body text here.") {
		t.Errorf("body missing content: %q", post.Body)
	}
	if strings.Contains(post.Body, "title:") {
		t.Errorf("body should not contain front matter: %q", post.Body)
	}
	if post.Checksum == "" {
		t.Error("checksum should not be empty")
	}
}

func TestParseExplicitSlug(t *testing.T) {
	src := "---\ntitle: Hello\ndate: 2024-02-01\nslug: Custom Slug!\n---\nhi\n"
	post, err := Parse("posts/whatever.md", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if post.Slug != "custom-slug" {
		t.Errorf("slug = %q, want %q", post.Slug, "custom-slug")
	}
}

func TestParseChecksumChangesWithSource(t *testing.T) {
	a, err := Parse("p.md", []byte(samplePost))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("p.md", []byte(samplePost+"\nedited"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Checksum == b.Checksum {
		t.Error("edited source should produce a different checksum")
	}
}

func TestParseMissingTitle(t *testing.T) {
	src := "---\ndate: 2024-01-01\n---\nbody\n"
	if _, err := Parse("posts/bad.md", []byte(src)); err == nil {
		t.Fatal("expected error for missing title")
	} else if !strings.Contains(err.Error(), "posts/bad.md") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestParseBadDate(t *testing.T) {
	src := "---\ntitle: X\ndate: Jan 1st 2024\n---\nbody\n"
	if _, err := Parse("posts/bad.md", []byte(src)); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestLoadSortsByDateDescending(t *testing.T) {
	fsys := fstest.MapFS{
		"content/older.md":  {Data: []byte("---\ntitle: Older\ndate: 2023-05-01\n---\na\n")},
		"content/newer.md":  {Data: []byte("---\ntitle: Newer\ndate: 2024-05-01\n---\nb\n")},
		"content/middle.md": {Data: []byte("---\ntitle: Middle\ndate: 2023-12-24\n---\nc\n")},
	}
	posts, err := Load(fsys, "content")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := []string{posts[0].Slug, posts[1].Slug, posts[2].Slug}
	want := []string{"newer", "middle", "older"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLoadDuplicateSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"content/a/post.md": {Data: []byte("---\ntitle: A\ndate: 2024-01-01\n---\na\n")},
		"content/b/post.md": {Data: []byte("---\ntitle: B\ndate: 2024-01-02\n---\nb\n")},
	}
	if _, err := Load(fsys, "content"); err == nil {
		t.Fatal("expected duplicate slug error")
	} else if !strings.Contains(err.Error(), "duplicate slug") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadSkipsNonMarkdown(t *testing.T) {
	fsys := fstest.MapFS{
		"content/post.md":   {Data: []byte("---\ntitle: A\ndate: 2024-01-01\n---\na\n")},
		"content/notes.txt": {Data: []byte("not a post")},
	}
	posts, err := Load(fsys, "content")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
}

func TestPublishedExcludesDrafts(t *testing.T) {
	posts := []Post{
		{Slug: "live"},
		{Slug: "wip", Draft: true},
	}
	pub := Published(posts)
	if len(pub) != 1 || pub[0].Slug != "live" {
		t.Fatalf("Published = %v, want only live", pub)
	}
}

func TestTagsAndByTag(t *testing.T) {
	posts := []Post{
		{Slug: "a", Tags: []string{"go", "web"}},
		{Slug: "b", Tags: []string{"go"}},
		{Slug: "c", Tags: []string{"life"}},
	}
	tags := Tags(posts)
	want := []string{"go", "life", "web"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}
	goPosts := ByTag(posts, " Go ")
	if len(goPosts) != 2 {
		t.Fatalf("ByTag(go) = %d posts, want 2", len(goPosts))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces  Around  ", "spaces-around"},
		{"Go 1.24 Released!", "go-1-24-released"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
