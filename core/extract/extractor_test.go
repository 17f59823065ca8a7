package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func extractString(t *testing.T, src string, targets bool) *pageFixture {
	t.Helper()
	e := &HTMLExtractor{Targets: targets}
	page, err := e.Extract(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &pageFixture{Title: page.Structured.Title, Headings: page.Structured.Headings,
		Paragraphs: page.Structured.Paragraphs, Links: page.Structured.Links,
		LinkURLs: page.Structured.LinkURLs, ImageURLs: page.Structured.ImageURLs,
		FullText: page.FullText, ContentHTML: page.ContentHTML}
}

type pageFixture struct {
	Title       string
	Headings    []string
	Paragraphs  []string
	Links       []string
	LinkURLs    []string
	ImageURLs   []string
	FullText    string
	ContentHTML string
}

func TestExtract_MinimalFixture(t *testing.T) {
	src := `<html><head><title>Hi</title></head><body><h1>A</h1><p> B   C </p><a>D</a></body></html>`
	p := extractString(t, src, false)

	if p.Title != "Hi" {
		t.Errorf("title = %q, want %q", p.Title, "Hi")
	}
	if !reflect.DeepEqual(p.Headings, []string{"A"}) {
		t.Errorf("headings = %q", p.Headings)
	}
	if !reflect.DeepEqual(p.Paragraphs, []string{"B C"}) {
		t.Errorf("paragraphs = %q", p.Paragraphs)
	}
	if !reflect.DeepEqual(p.Links, []string{"D"}) {
		t.Errorf("links = %q", p.Links)
	}
	if p.FullText != "Hi A B C D" {
		t.Errorf("full text = %q", p.FullText)
	}
	if p.LinkURLs != nil || p.ImageURLs != nil {
		t.Errorf("targets should be empty without Targets, got %q / %q", p.LinkURLs, p.ImageURLs)
	}
}

func TestExtract_NoiseNeverLeaks(t *testing.T) {
	src := `<!doctype html>
	<html>
	  <head>
	    <title>Page</title>
	    <style>.x { color: SECRET; }</style>
	    <script>var token = "SECRET";</script>
	  </head>
	  <body>
	    <noscript><p>SECRET noscript</p></noscript>
	    <h2>Visible <script>SECRET</script>heading</h2>
	    <p>Visible paragraph</p>
	    <iframe src="https://ads.example"><a>SECRET frame</a></iframe>
	    <footer><a href="/terms">SECRET footer link</a><p>SECRET</p></footer>
	  </body>
	</html>`
	p := extractString(t, src, true)

	all := append([]string{p.Title, p.FullText, p.ContentHTML}, p.Headings...)
	all = append(all, p.Paragraphs...)
	all = append(all, p.Links...)
	all = append(all, p.LinkURLs...)
	for _, s := range all {
		if strings.Contains(s, "SECRET") {
			t.Fatalf("noise content leaked into output: %q", s)
		}
	}
	if !reflect.DeepEqual(p.Headings, []string{"Visible heading"}) {
		t.Errorf("headings = %q", p.Headings)
	}
	if len(p.LinkURLs) != 0 {
		t.Errorf("footer link target should be removed, got %q", p.LinkURLs)
	}
}

func TestExtract_DocumentOrderAndEmptyDrop(t *testing.T) {
	src := `<html><body>
	  <h3>Third level</h3>
	  <h1>First level</h1>
	  <h2>   </h2>
	  <h6>&amp;&amp;</h6>
	  <p>one</p><p></p><p>two <b>bold</b></p>
	  <a href="/a">Alpha</a><a href="/b"><img src="/b.png"></a><a>Beta</a>
	</body></html>`
	p := extractString(t, src, true)

	if !reflect.DeepEqual(p.Headings, []string{"Third level", "First level"}) {
		t.Errorf("headings = %q", p.Headings)
	}
	if !reflect.DeepEqual(p.Paragraphs, []string{"one", "two bold"}) {
		t.Errorf("paragraphs = %q", p.Paragraphs)
	}
	if !reflect.DeepEqual(p.Links, []string{"Alpha", "Beta"}) {
		t.Errorf("links = %q", p.Links)
	}
	if !reflect.DeepEqual(p.LinkURLs, []string{"/a", "/b"}) {
		t.Errorf("link urls = %q", p.LinkURLs)
	}
	if !reflect.DeepEqual(p.ImageURLs, []string{"/b.png"}) {
		t.Errorf("image urls = %q", p.ImageURLs)
	}
}

func TestExtract_NoTitle(t *testing.T) {
	p := extractString(t, `<p>just text</p>`, false)
	if p.Title != "" {
		t.Errorf("title = %q, want empty", p.Title)
	}
	if p.Headings == nil || p.Links == nil {
		t.Errorf("empty sections should be non-nil slices")
	}
	if p.FullText != "just text" {
		t.Errorf("full text = %q", p.FullText)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	src := `<html><head><title>T</title></head><body><h1>H</h1><p>P &amp; Q</p><a href="x">L</a></body></html>`
	first := extractString(t, src, true)
	second := extractString(t, src, true)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestRemoveNoise_Count(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<body><script></script><style></style><footer><script></script></footer><p>ok</p></body>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n := RemoveNoise(doc); n != 4 {
		t.Errorf("removed %d nodes, want 4", n)
	}
	if n := RemoveNoise(doc); n != 0 {
		t.Errorf("second pass removed %d nodes, want 0", n)
	}
	if doc.Find("p").Text() != "ok" {
		t.Errorf("content outside noise must survive")
	}
}

// element builds an element node with the given children.
func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func TestFullText_HandBuiltTree(t *testing.T) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(element(atom.Html,
		element(atom.Body,
			element(atom.H1, text("  Heading ")),
			&html.Node{Type: html.CommentNode, Data: "hidden comment"},
			element(atom.P, text("first"), element(atom.B, text("bold")), text("\n\t")),
			element(atom.Script, text("SECRET")),
		),
	))

	if got := FullText(root); got != "Heading first bold SECRET" {
		t.Errorf("FullText before filtering = %q", got)
	}

	doc := goquery.NewDocumentFromNode(root)
	RemoveNoise(doc)
	if got := FullText(root); got != "Heading first bold" {
		t.Errorf("FullText after filtering = %q", got)
	}

	content := Structured(doc, false)
	if !reflect.DeepEqual(content.Headings, []string{"Heading"}) {
		t.Errorf("headings = %q", content.Headings)
	}
	if !reflect.DeepEqual(content.Paragraphs, []string{"firstbold"}) {
		t.Errorf("paragraphs = %q", content.Paragraphs)
	}
}

func TestFullText_Nil(t *testing.T) {
	if got := FullText(nil); got != "" {
		t.Errorf("FullText(nil) = %q", got)
	}
}
