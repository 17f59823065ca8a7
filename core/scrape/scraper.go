// Package scrape is the core entry point: it validates a URL, fetches the
// page, runs extraction and assembles a ScrapeResult or a typed error.
//
// A Scraper is built once at startup and shared by reference; it holds no
// per-request state and is safe for concurrent use.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/webscrape/core"
	"github.com/gaurav-prasanna/webscrape/core/normalize"
)

// Validation failures, surfaced to callers as client errors.
var (
	ErrURLRequired = &core.ValidationError{Message: "URL parameter is required"}
	ErrInvalidURL  = &core.ValidationError{Message: "Invalid URL format"}
)

// Scraper orchestrates fetch, extraction and result assembly.
type Scraper struct {
	fetcher    core.Fetcher
	extractor  core.Extractor
	normalizer core.Normalizer
	store      core.ResultStore
	now        func() time.Time
	logger     zerolog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for scrape events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scraper) {
		s.logger = l
	}
}

// WithStore records every result and scrape error in the given store.
func WithStore(store core.ResultStore) Option {
	return func(s *Scraper) {
		s.store = store
	}
}

// WithMarkdown attaches a Markdown rendering of the page body to results.
func WithMarkdown(n core.Normalizer) Option {
	return func(s *Scraper) {
		s.normalizer = n
	}
}

// New creates a Scraper from its pipeline stages.
func New(fetcher core.Fetcher, extractor core.Extractor, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:   fetcher,
		extractor: extractor,
		now:       time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateURL checks that raw is present and uses the http or https scheme.
func ValidateURL(raw string) error {
	if raw == "" {
		return ErrURLRequired
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ErrInvalidURL
	}
	return nil
}

// Scrape fetches rawURL once and returns its result. Errors are either a
// *core.ValidationError (no network call was made) or a *core.ScrapeError.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*core.ScrapeResult, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	result, scrapeErr := s.scrape(ctx, rawURL)
	if scrapeErr != nil {
		s.logger.Warn().Str("url", rawURL).Str("kind", string(scrapeErr.Kind)).Err(scrapeErr.Cause).Msg("scrape failed")
		s.record(ctx, core.Record{Error: scrapeErr})
		return nil, scrapeErr
	}

	s.logger.Debug().
		Str("url", rawURL).
		Int("text_length", result.TextLength).
		Int("word_count", result.WordCount).
		Msg("scraped")
	s.record(ctx, core.Record{Result: result})
	return result, nil
}

func (s *Scraper) scrape(ctx context.Context, rawURL string) (*core.ScrapeResult, *core.ScrapeError) {
	fetched, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, core.NewFetchError(err)
	}
	timestamp := s.now().UTC()

	page, err := s.extract(fetched.HTML)
	if err != nil {
		return nil, core.NewExtractionError(err)
	}

	result := &core.ScrapeResult{
		URL:               rawURL,
		Timestamp:         timestamp,
		StructuredContent: page.Structured,
		FullText:          page.FullText,
		TextLength:        utf8.RuneCountInString(page.FullText),
		WordCount:         normalize.WordCount(page.FullText),
	}

	if s.normalizer != nil && page.ContentHTML != "" {
		markdown, err := s.normalizer.Normalize(page.ContentHTML)
		if err != nil {
			return nil, core.NewExtractionError(err)
		}
		result.Markdown = markdown
	}
	return result, nil
}

// extract runs the extractor and turns a panic on malformed input into an error.
func (s *Scraper) extract(html string) (page *core.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return s.extractor.Extract(strings.NewReader(html))
}

func (s *Scraper) record(ctx context.Context, rec core.Record) {
	if s.store == nil {
		return
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.logger.Error().Err(err).Msg("recording scrape outcome")
	}
}
