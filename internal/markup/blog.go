package markup

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	// Posts written in the rich-text editor are stored as HTML; let it
	// through and rely on Sanitize.
	goldmark.WithRendererOptions(html.WithUnsafe(), html.WithHardWraps()),
)

// RenderPost renders a post body (markdown or HTML) to sanitized HTML.
func RenderPost(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return Sanitize(buf.String()), nil
}
