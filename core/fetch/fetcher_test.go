package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	res, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK || res.HTML != "<html><body>ok</body></html>" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("user agent = %q, want browser UA", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("accept header = %q", gotAccept)
	}
}

func TestFetch_Non2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "404 Not Found") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestFetch_NoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := New().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 502")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(WithTimeout(50*time.Millisecond)).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !strings.HasPrefix(err.Error(), "fetching ") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New().Fetch(context.Background(), url); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestFetch_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Café" in Latin-1.
		_, _ = w.Write([]byte{'<', 'p', '>', 'C', 'a', 'f', 0xe9, '<', '/', 'p', '>'})
	}))
	defer srv.Close()

	res, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HTML != "<p>Café</p>" {
		t.Errorf("html = %q", res.HTML)
	}
}

func TestFetch_MaxBodyBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	res, err := New(WithMaxBodyBytes(10)).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.HTML) != 10 {
		t.Errorf("body length = %d, want 10", len(res.HTML))
	}
}

func TestFetch_CustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, err := New(WithUserAgent("webscrape-test")).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != "webscrape-test" {
		t.Errorf("user agent = %q", gotUA)
	}
}
