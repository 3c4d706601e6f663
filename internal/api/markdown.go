package api

import (
	"bytes"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	descriptionMarkdown = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Strikethrough,
		),
	)
	descriptionPolicy = bluemonday.UGCPolicy()
)

// renderDescription converts a ticket description from markdown to sanitized
// HTML for detail views.
func renderDescription(src string) string {
	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(src), &buf); err != nil {
		log.Printf("api: render description: %v", err)
		return ""
	}
	return descriptionPolicy.Sanitize(buf.String())
}
