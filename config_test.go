package inkwell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "site.yml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Blog" {
		t.Errorf("Name = %q, want default", cfg.Name)
	}
	if cfg.OutputDir != "public" || cfg.ContentDir != "content" {
		t.Errorf("dir defaults wrong: %+v", cfg)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Site.Name != "Blog" {
		t.Errorf("Site view config not populated: %+v", cfg.Site)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yml")
	yml := `name: "Field Notes"
url: "https://notes.example.com"
description: "Notes from the field"
author: "J. Maren"
posts_per_feed: 5
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Field Notes" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.URL != "https://notes.example.com" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.PostsPerFeed != 5 {
		t.Errorf("PostsPerFeed = %d, want 5", cfg.PostsPerFeed)
	}
	if cfg.Site.Author != "J. Maren" {
		t.Errorf("Site.Author = %q", cfg.Site.Author)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yml")
	if err := os.WriteFile(path, []byte("name: File Name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_NAME", "Env Name")
	t.Setenv("ADDR", ":9999")
	t.Setenv("PREVIEW_PASSWORD", "hunter2")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Env Name" {
		t.Errorf("env should override file: Name = %q", cfg.Name)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.PreviewPassword != "hunter2" {
		t.Errorf("PreviewPassword not applied")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yml")
	if err := os.WriteFile(path, []byte("name: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
