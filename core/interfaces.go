// Package core defines the data model and pipeline interfaces for webscrape.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"io"
	"time"
)

// ScrapeRequest is the single input of a scrape: the page to fetch.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// FetchResult holds the decoded HTML and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

// StructuredContent is the title/headings/paragraphs/links summary of a page.
// LinkURLs and ImageURLs are only filled when raw targets are requested.
type StructuredContent struct {
	Title      string   `json:"title"`
	Headings   []string `json:"headings"`
	Paragraphs []string `json:"paragraphs"`
	Links      []string `json:"links"`
	LinkURLs   []string `json:"link_urls,omitempty"`
	ImageURLs  []string `json:"image_urls,omitempty"`
}

// ScrapeResult is the complete output for a single page.
type ScrapeResult struct {
	URL               string            `json:"url"`
	Timestamp         time.Time         `json:"timestamp"`
	StructuredContent StructuredContent `json:"structured_content"`
	FullText          string            `json:"full_text"`
	TextLength        int               `json:"text_length"`
	WordCount         int               `json:"word_count"`
	Markdown          string            `json:"markdown,omitempty"`
}

// Page is what an Extractor derives from one HTML document.
// FullText is already cleaned. ContentHTML is the noise-free <body> markup.
type Page struct {
	Structured  StructuredContent
	FullText    string
	ContentHTML string
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor parses HTML, strips noise and derives the structured and
// flattened representations of the page.
type Extractor interface {
	Extract(r io.Reader) (*Page, error)
}

// Normalizer converts cleaned HTML into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts a scrape result into a final output format.
type Renderer interface {
	Render(result *ScrapeResult) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Record is one entry of the result log: either a result or an error.
type Record struct {
	ID         string        `json:"id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Result     *ScrapeResult `json:"result,omitempty"`
	Error      *ScrapeError  `json:"error,omitempty"`
}

// ResultStore persists scrape outcomes in the order they were produced.
type ResultStore interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}
