// Package extract implements the Extractor interface.
// It turns a full HTML page into structured content and flattened text by:
//  1. Removing noise elements (script, style, noscript, iframe, footer)
//  2. Collecting the title, headings, paragraphs and link texts
//  3. Flattening every remaining text node into one cleaned string
package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/webscrape/core"
	"github.com/gaurav-prasanna/webscrape/core/normalize"
)

// noiseSelector matches elements whose content must never reach the output.
var noiseSelector = cascadia.MustCompile("script, style, noscript, iframe, footer")

var (
	headingSelector = cascadia.MustCompile("h1, h2, h3, h4, h5, h6")
	linkURLSelector = cascadia.MustCompile("a[href]")
	imageSelector   = cascadia.MustCompile("img[src]")
)

// HTMLExtractor strips noise from HTML and derives the page representations.
type HTMLExtractor struct {
	// Targets also collects raw href/src values of links and images.
	Targets bool
	Logger  zerolog.Logger
}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{Logger: zerolog.Nop()}
}

// Extract parses the document, removes noise once and builds the Page.
func (e *HTMLExtractor) Extract(r io.Reader) (*core.Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	e.Logger.Debug().Int("noise", doc.FindMatcher(noiseSelector).Length()).Msg("removing noise")
	return FromDocument(doc, e.Targets)
}

// FromDocument runs the extraction passes over an already parsed document.
// The document is mutated: noise nodes are detached from the tree.
func FromDocument(doc *goquery.Document, targets bool) (*core.Page, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	RemoveNoise(doc)

	page := &core.Page{
		Structured: Structured(doc, targets),
		FullText:   normalize.Clean(FullText(doc.Nodes[0])),
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		content, err := body.Html()
		if err != nil {
			return nil, fmt.Errorf("serializing body: %w", err)
		}
		page.ContentHTML = content
	}
	return page, nil
}

// RemoveNoise detaches every noise element from the document and returns how
// many were matched. Nested noise is counted but detached with its ancestor.
func RemoveNoise(doc *goquery.Document) int {
	noise := doc.FindMatcher(noiseSelector)
	n := noise.Length()
	noise.Remove()
	return n
}

// Structured collects the title, headings, paragraphs and link texts in
// document order. Entries that clean to the empty string are dropped.
func Structured(doc *goquery.Document, targets bool) core.StructuredContent {
	content := core.StructuredContent{
		Title:      normalize.Clean(doc.Find("title").First().Text()),
		Headings:   cleanedTexts(doc.FindMatcher(headingSelector)),
		Paragraphs: cleanedTexts(doc.Find("p")),
		Links:      cleanedTexts(doc.Find("a")),
	}
	if targets {
		content.LinkURLs = attrValues(doc.FindMatcher(linkURLSelector), "href")
		content.ImageURLs = attrValues(doc.FindMatcher(imageSelector), "src")
	}
	return content
}

func cleanedTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := normalize.Clean(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func attrValues(sel *goquery.Selection, name string) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(name); ok && v != "" {
			out = append(out, v)
		}
	})
	return out
}

// FullText flattens every text node under root, in document order. Each text
// node is trimmed, empty ones are skipped and the rest are joined by a single
// space. Comments and doctype nodes carry no visible text and are ignored.
func FullText(root *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return strings.Join(parts, " ")
}
