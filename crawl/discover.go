// Package crawl discovers the pages of a site for `scrape --all`.
// It reads sitemap.xml when the site has one and otherwise walks internal
// links breadth-first. Every request goes through the same core.Fetcher the
// scraper uses, paced by a shared rate limiter.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/webscrape/core"
)

// DefaultMaxPages bounds a crawl when Options.MaxPages is unset.
const DefaultMaxPages = 100

// Options tunes discovery.
type Options struct {
	MaxPages      int
	RateLimit     float64 // requests per second
	RespectRobots bool
	UserAgent     string
	Logger        zerolog.Logger
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	URLs []sitemapURL `xml:"url"`
}

// Discoverer finds internal URLs starting from a base URL.
type Discoverer struct {
	fetcher core.Fetcher
	opts    Options
	limiter *rate.Limiter
	robots  *RobotsChecker
}

// NewDiscoverer builds a Discoverer that fetches through fetcher.
func NewDiscoverer(fetcher core.Fetcher, opts Options) *Discoverer {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	limit := rate.Inf
	burst := 1
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
		if b := int(opts.RateLimit); b > 1 {
			burst = b
		}
	}
	d := &Discoverer{
		fetcher: fetcher,
		opts:    opts,
		limiter: rate.NewLimiter(limit, burst),
	}
	if opts.RespectRobots {
		d.robots = NewRobotsChecker(fetcher, opts.UserAgent)
	}
	return d
}

// DiscoverAll is a convenience wrapper around NewDiscoverer(...).Discover.
func DiscoverAll(ctx context.Context, baseURL string, fetcher core.Fetcher, opts Options) ([]string, error) {
	return NewDiscoverer(fetcher, opts).Discover(ctx, baseURL)
}

// Discover returns the URLs to scrape for baseURL, the base itself first.
// The sitemap wins when it lists at least one internal page.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) ([]string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("parsing base URL %q: invalid", baseURL)
	}
	domain := parsed.Host
	start := NormalizeURL(baseURL)

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, domain)
	urls, err := d.fromSitemap(ctx, sitemap, domain)
	if err != nil {
		d.opts.Logger.Debug().Err(err).Str("sitemap", sitemap).Msg("sitemap unavailable, crawling links")
	}
	if len(urls) > 0 {
		q := NewQueue(d.opts.MaxPages)
		q.Add(start)
		for _, u := range urls {
			if d.allowed(ctx, u) {
				q.Add(u)
			}
		}
		return q.All(), nil
	}

	return d.fromLinks(ctx, start, domain)
}

func (d *Discoverer) fetch(ctx context.Context, target string) (*core.FetchResult, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return d.fetcher.Fetch(ctx, target)
}

func (d *Discoverer) allowed(ctx context.Context, target string) bool {
	if d.robots == nil {
		return true
	}
	ok := d.robots.Allowed(ctx, target, d.fetch)
	if !ok {
		d.opts.Logger.Debug().Str("url", target).Msg("disallowed by robots.txt")
	}
	return ok
}

func (d *Discoverer) fromSitemap(ctx context.Context, sitemap string, domain string) ([]string, error) {
	res, err := d.fetch(ctx, sitemap)
	if err != nil {
		return nil, err
	}
	var set urlSet
	if err := xml.Unmarshal([]byte(res.HTML), &set); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}

	var urls []string
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if IsCrawlable(loc, domain) {
			urls = append(urls, NormalizeURL(loc))
		}
	}
	return urls, nil
}

// fromLinks walks internal links breadth-first until the queue drains or
// MaxPages URLs are known. Pages that fail to fetch are skipped; links
// disallowed by robots.txt are never admitted.
func (d *Discoverer) fromLinks(ctx context.Context, start string, domain string) ([]string, error) {
	q := NewQueue(d.opts.MaxPages)
	q.Add(start)

	for q.HasNext() && !q.Full() {
		if err := ctx.Err(); err != nil {
			return q.All(), err
		}
		current := q.Next()
		res, err := d.fetch(ctx, current)
		if err != nil {
			d.opts.Logger.Debug().Err(err).Str("url", current).Msg("skipping page")
			continue
		}
		links, err := extractLinks(res.HTML, current)
		if err != nil {
			continue
		}
		for _, link := range links {
			if IsCrawlable(link, domain) && d.allowed(ctx, link) {
				q.Add(NormalizeURL(link))
			}
		}
	}
	return q.All(), nil
}

// extractLinks returns every a[href] of the page resolved against pageURL.
func extractLinks(html string, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

func resolveURL(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
