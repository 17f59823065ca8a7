package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFor(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		layout Layout
		url    string
		want   string
	}{
		{Flat, "https://example.com", "example_com.json"},
		{Flat, "https://example.com/docs/intro/", "example_com_docs_intro.json"},
		{Flat, "https://sub.example.com:8080/a-b", "sub_example_com_8080_a_b.json"},
		{Tree, "https://example.com/", "index.json"},
		{Tree, "https://example.com/docs/intro", filepath.Join("docs", "intro.json")},
		{Tree, "https://example.com/../../etc/passwd", filepath.Join("etc", "passwd.json")},
	}
	for _, tt := range tests {
		w := &Writer{OutputDir: dir, Layout: tt.layout}
		got, err := w.PathFor(tt.url, ".json")
		if err != nil {
			t.Fatalf("PathFor(%q): %v", tt.url, err)
		}
		if want := filepath.Join(dir, tt.want); got != want {
			t.Errorf("PathFor(%q) = %q, want %q", tt.url, got, want)
		}
	}
}

func TestWrite_CreatesParents(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "out"), Tree)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	path, err := w.Write("https://example.com/a/b/c", []byte("data"), ".md")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "data" {
		t.Fatalf("read back %q: %v", b, err)
	}
}
