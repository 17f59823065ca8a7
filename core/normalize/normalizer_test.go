package normalize

import (
	"strings"
	"testing"
	"unicode"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \n\t ", want: ""},
		{name: "collapses runs", in: " B   C ", want: "B C"},
		{name: "newlines and tabs", in: "one\n\ntwo\tthree", want: "one two three"},
		{name: "keeps basic punctuation", in: "Hello, world! Ready? Yes - go.", want: "Hello, world! Ready? Yes - go."},
		{name: "drops symbols", in: "price: $10 (approx) #tag @me", want: "price 10 approx tag me"},
		{name: "symbol between spaces leaves one space", in: "a & b", want: "a b"},
		{name: "symbol inside word", in: "don't", want: "dont"},
		{name: "underscore survives", in: "snake_case", want: "snake_case"},
		{name: "unicode letters survive", in: "Café  naïve 日本語", want: "Café naïve 日本語"},
		{name: "non-breaking space collapses", in: "a\u00a0\u00a0b", want: "a b"},
		{name: "trailing symbol trimmed", in: "end ©", want: "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean_OutputAlphabet(t *testing.T) {
	inputs := []string{
		"<script>alert('x')</script>",
		"  tabs\t\tand\r\nlines  ",
		"emoji 🎉 and ™ marks ; : / \\ | ~ ` ^ * + = { } [ ] < >",
		"\u2003em space\u3000ideographic",
	}
	for _, in := range inputs {
		out := Clean(in)
		if out != strings.TrimSpace(out) {
			t.Errorf("Clean(%q) = %q is not trimmed", in, out)
		}
		prevSpace := false
		for _, r := range out {
			if unicode.IsSpace(r) {
				if r != ' ' {
					t.Errorf("Clean(%q) kept non-space whitespace %q", in, r)
				}
				if prevSpace {
					t.Errorf("Clean(%q) = %q has a whitespace run", in, out)
				}
				prevSpace = true
				continue
			}
			prevSpace = false
			if !keep(r) {
				t.Errorf("Clean(%q) kept disallowed rune %q", in, r)
			}
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount(\"\") = %d, want 0", got)
	}
	if got := WordCount("B C d"); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
}

func TestMarkdownNormalizer(t *testing.T) {
	md, err := New().Normalize("<h1>Title</h1><p>Some <strong>bold</strong> text.</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(md, "# Title") {
		t.Errorf("expected heading in markdown, got %q", md)
	}
	if !strings.Contains(md, "**bold**") {
		t.Errorf("expected bold text in markdown, got %q", md)
	}
}
