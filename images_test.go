package inkwell

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func decodeWidth(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("missing output image: %v", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width
}

func TestCopyAssetsResizesWideJPEG(t *testing.T) {
	staticDir := t.TempDir()
	outDir := t.TempDir()
	writeJPEG(t, filepath.Join(staticDir, "images", "wide.jpg"), 1600, 900)
	writeJPEG(t, filepath.Join(staticDir, "images", "small.jpg"), 400, 300)

	copied, resized, err := CopyAssets(staticDir, outDir)
	if err != nil {
		t.Fatalf("CopyAssets failed: %v", err)
	}
	if copied != 2 {
		t.Errorf("copied = %d, want 2", copied)
	}
	if resized != 1 {
		t.Errorf("resized = %d, want 1", resized)
	}
	if w := decodeWidth(t, filepath.Join(outDir, "images", "wide.jpg")); w != maxImageWidth {
		t.Errorf("wide image output width = %d, want %d", w, maxImageWidth)
	}
	if w := decodeWidth(t, filepath.Join(outDir, "images", "small.jpg")); w != 400 {
		t.Errorf("small image should be untouched, got width %d", w)
	}
}

func TestCopyAssetsVerbatimForOtherFiles(t *testing.T) {
	staticDir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(staticDir, "fonts", "body.woff2")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte{0x77, 0x4f, 0x46, 0x32}, 0o644); err != nil {
		t.Fatal(err)
	}

	copied, resized, err := CopyAssets(staticDir, outDir)
	if err != nil {
		t.Fatalf("CopyAssets failed: %v", err)
	}
	if copied != 1 || resized != 0 {
		t.Errorf("copied=%d resized=%d, want 1/0", copied, resized)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "fonts", "body.woff2"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0x77, 0x4f, 0x46, 0x32}) {
		t.Error("non-image file should be copied byte for byte")
	}
}

func TestCopyAssetsMissingStaticDir(t *testing.T) {
	outDir := t.TempDir()
	copied, resized, err := CopyAssets(filepath.Join(outDir, "does-not-exist"), outDir)
	if err != nil {
		t.Fatalf("missing static dir should not be an error: %v", err)
	}
	if copied != 0 || resized != 0 {
		t.Errorf("copied=%d resized=%d, want 0/0", copied, resized)
	}
}
