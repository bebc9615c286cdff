package viewer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Converter turns report text into display markup.
type Converter interface {
	Convert(text string, format ContentFormat) (string, error)
}

// MarkdownConverter renders Markdown with goldmark (GFM tables, strikethrough,
// autolinks). Raw HTML inside Markdown is not passed through.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter creates the converter.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Parse renders Markdown text to HTML.
func (c *MarkdownConverter) Parse(text string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

// Convert renders Markdown, and returns pre-rendered HTML unchanged.
func (c *MarkdownConverter) Convert(text string, format ContentFormat) (string, error) {
	if format == FormatHTML {
		return text, nil
	}
	return c.Parse(text)
}
