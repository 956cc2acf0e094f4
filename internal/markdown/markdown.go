// Package markdown renders note text to HTML.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the source is dropped (goldmark's default unsafe=false).
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Render converts markdown text to an HTML fragment.
func Render(text string) (string, error) {
	var b strings.Builder
	if err := renderer.Convert([]byte(text), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
