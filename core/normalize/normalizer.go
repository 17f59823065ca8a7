// Package normalize turns extracted page text into its canonical forms:
// cleaned plain text for every extracted string, and Markdown for the
// optional Markdown rendering of the page body.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Clean normalizes a piece of extracted text. It drops every rune that is not
// a letter, number, underscore, whitespace or one of ". , ! ? -", collapses
// each whitespace run to a single space and trims the result.
//
// Filtering runs before collapsing, so "a & b" becomes "a b" rather than
// leaving a double space behind.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case keep(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// keep reports whether a non-space rune survives cleaning.
func keep(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case '_', '.', ',', '!', '?', '-':
		return true
	}
	return false
}

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts a cleaned HTML fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
