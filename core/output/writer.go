// Package output decides where rendered scrape results land on disk.
// Single-page runs use a flat name derived from host and path
// (example_com_docs.json); site runs mirror the URL path tree
// (docs/intro.json, index.json for the root).
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Layout selects how a URL maps to a file path.
type Layout int

const (
	// Flat writes every page next to each other under a host-derived name.
	Flat Layout = iota
	// Tree mirrors the URL path below the output directory.
	Tree
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
	Layout    Layout
}

// New creates a Writer targeting the given output directory, creating it if
// needed. An empty outputDir means the current working directory.
func New(outputDir string, layout Layout) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{OutputDir: outputDir, Layout: layout}, nil
}

// Write stores data for rawURL and returns the file path used.
func (w *Writer) Write(rawURL string, data []byte, ext string) (string, error) {
	path, err := w.PathFor(rawURL, ext)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// PathFor returns the file path Write would use for rawURL.
func (w *Writer) PathFor(rawURL string, ext string) (string, error) {
	if w.Layout == Flat {
		return filepath.Join(w.OutputDir, flatName(rawURL)+ext), nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	segments := []string{}
	for _, seg := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segments = append(segments, sanitize(seg))
	}
	if len(segments) == 0 {
		segments = []string{"index"}
	}
	segments[len(segments)-1] += ext
	return filepath.Join(append([]string{w.OutputDir}, segments...)...), nil
}

// flatName converts a URL into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func flatName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	if p := strings.Trim(parsed.Path, "/"); p != "" {
		for _, seg := range strings.Split(p, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces every rune outside [A-Za-z0-9] with an underscore.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, s)
}
