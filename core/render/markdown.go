// Package render provides output renderers for scrape results.
// This file implements the Markdown renderer.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gaurav-prasanna/webscrape/core"
)

var errNilResult = errors.New("nil scrape result")

// MarkdownRenderer writes the converted page body when the result carries
// one, otherwise a document assembled from the structured content.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown as bytes.
func (r *MarkdownRenderer) Render(result *core.ScrapeResult) ([]byte, error) {
	if result == nil {
		return nil, errNilResult
	}

	var b strings.Builder
	title := result.StructuredContent.Title
	if title == "" {
		title = result.URL
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_Source: %s (%s)_\n\n", result.URL, result.Timestamp.UTC().Format(time.RFC3339))

	if result.Markdown != "" {
		b.WriteString(result.Markdown)
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	sc := result.StructuredContent
	if len(sc.Headings) > 0 {
		b.WriteString("## Headings\n\n")
		for _, h := range sc.Headings {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}
	for _, p := range sc.Paragraphs {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	if len(sc.Links) > 0 {
		b.WriteString("## Links\n\n")
		for _, l := range sc.Links {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "---\n\n%d words, %d characters\n", result.WordCount, result.TextLength)
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
