// Package markdown renders post bodies to HTML as a templ component. The
// conversion itself is delegated to goldmark; this package only owns the
// engine configuration.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// engine is stateless after construction, so a single shared instance is safe
// across goroutines.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Posts are authored locally, not user-submitted, so raw HTML
		// passes through.
		html.WithUnsafe(),
	),
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, md); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) error {
	if err := engine.Convert([]byte(md), buf); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	return nil
}

// Render converts md and returns the HTML as a string.
func Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, md); err != nil {
		return "", err
	}
	return buf.String(), nil
}
