package crawl

import (
	"net/url"
	"path"
	"strings"
)

// skipExtensions are assets that never carry scrapeable page text.
var skipExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".ico": {}, ".bmp": {},
	".css": {}, ".js": {}, ".mjs": {}, ".json": {}, ".xml": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".mp4": {}, ".webm": {}, ".mp3": {}, ".wav": {},
	".zip": {}, ".tar": {}, ".gz": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
}

// IsCrawlable reports whether rawURL is an http(s) page on domain.
func IsCrawlable(rawURL string, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return strings.EqualFold(parsed.Host, domain) && !IsStaticAsset(rawURL)
}

// IsStaticAsset reports whether rawURL points at a non-page asset.
func IsStaticAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, skip := skipExtensions[strings.ToLower(path.Ext(parsed.Path))]
	return skip
}

// NormalizeURL drops the fragment and any trailing slash so that equivalent
// URLs dedupe. The root path normalizes to "/".
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)
	switch p := strings.TrimRight(parsed.Path, "/"); p {
	case "":
		parsed.Path = "/"
	default:
		parsed.Path = p
	}
	return parsed.String()
}
