package inkwell

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// CopyAssets copies the static dir into the output dir. JPEG photos wider
// than maxImageWidth are downscaled and re-encoded on the way through; every
// other file is copied verbatim. Returns (files copied, images resized).
func CopyAssets(staticDir, outputDir string) (int, int, error) {
	copied, resized := 0, 0
	err := filepath.WalkDir(staticDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == staticDir {
				return filepath.SkipAll // no static dir is fine
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".jpg" || ext == ".jpeg" {
			didResize, err := copyJPEG(path, dst)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if didResize {
				resized++
			}
			copied++
			return nil
		}

		if err := copyFile(path, dst); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		copied++
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return copied, resized, nil
}

// copyJPEG writes src to dst, downscaling to maxImageWidth when the source is
// wider. Reports whether a resize happened. An undecodable file is copied
// verbatim rather than failing the build.
func copyJPEG(src, dst string) (bool, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return false, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return false, os.WriteFile(dst, data, 0o644)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageWidth {
		return false, os.WriteFile(dst, data, 0o644)
	}

	newH := h * maxImageWidth / w
	scaled := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return false, fmt.Errorf("encode jpeg: %w", err)
	}
	return true, os.WriteFile(dst, buf.Bytes(), 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
