// Package fetch implements the Fetcher interface.
// It performs a single HTTP GET per call with a browser User-Agent and a
// fixed timeout, and decodes the body to UTF-8.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/gaurav-prasanna/webscrape/core"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultMaxBodyBytes = 10 << 20
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       zerolog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout bounds the whole request, body included.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithHTTPClient replaces the underlying client. The configured timeout is kept
// unless the given client sets its own.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c == nil {
			return
		}
		clone := *c
		if clone.Timeout == 0 {
			clone.Timeout = f.client.Timeout
		}
		f.client = &clone
	}
}

// WithLogger sets the logger used for per-request debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = l
	}
}

// New creates an HTTPFetcher with a 10 second timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:       &http.Client{Timeout: DefaultTimeout},
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML content of the given URL. It makes exactly one
// attempt; non-2xx responses and transport failures are returned as errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	f.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        decode(body, contentType),
	}, nil
}

// decode converts body to UTF-8 using the declared or sniffed charset.
// Unknown encodings fall back to the raw bytes.
func decode(body []byte, contentType string) string {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || enc == nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
