// ABOUTME: Markdown rendering of post bodies with goldmark
// ABOUTME: Raw HTML in post text is dropped, never passed through

package api

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type markdownRenderer struct {
	md goldmark.Markdown
}

func newMarkdownRenderer() *markdownRenderer {
	// goldmark omits raw HTML unless html.WithUnsafe is set.
	return &markdownRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts markdown text to HTML. On failure it returns the empty string.
func (m *markdownRenderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
