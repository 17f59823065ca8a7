package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/gaurav-prasanna/webscrape/core"
)

type fetchFunc func(ctx context.Context, target string) (*core.FetchResult, error)

// RobotsChecker caches robots.txt rules per host for the life of a crawl.
// A missing or unreadable robots.txt allows everything.
type RobotsChecker struct {
	fetcher   core.Fetcher
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData // nil value: allow all
}

// NewRobotsChecker builds a checker that reads robots.txt through fetcher.
func NewRobotsChecker(fetcher core.Fetcher, userAgent string) *RobotsChecker {
	if userAgent == "" {
		userAgent = "*"
	}
	return &RobotsChecker{
		fetcher:   fetcher,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched. fetch overrides how
// robots.txt itself is requested; nil uses the checker's fetcher directly.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string, fetch fetchFunc) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true
	}
	if fetch == nil {
		fetch = r.fetcher.Fetch
	}

	r.mu.Lock()
	data, cached := r.hosts[parsed.Host]
	r.mu.Unlock()
	if !cached {
		data = r.load(ctx, parsed, fetch)
		r.mu.Lock()
		r.hosts[parsed.Host] = data
		r.mu.Unlock()
	}
	if data == nil {
		return true
	}
	p := parsed.EscapedPath()
	if p == "" {
		p = "/"
	}
	return data.TestAgent(p, r.userAgent)
}

func (r *RobotsChecker) load(ctx context.Context, page *url.URL, fetch fetchFunc) *robotstxt.RobotsData {
	res, err := fetch(ctx, fmt.Sprintf("%s://%s/robots.txt", page.Scheme, page.Host))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(res.StatusCode, []byte(res.HTML))
	if err != nil {
		return nil
	}
	return data
}
