package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, 2*time.Second, 1024)
	res, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if !res.OK || res.FinalURL == "" || res.ContentType == "" {
		t.Fatal("unexpected empty values")
	}
	if !strings.Contains(res.HTML, "<title>x</title>") {
		t.Fatalf("body not captured: %q", res.HTML)
	}
}

func TestRejectNonHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, 2*time.Second, 1024)
	_, err := client.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error for non-html")
	}
}

func TestSizeCap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>" + strings.Repeat("a", 4096) + "</html>"))
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, 2*time.Second, 256)
	res, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if len(res.HTML) > 256 {
		t.Fatalf("size cap not enforced: got %d bytes", len(res.HTML))
	}
}

func TestFetchErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, 2*time.Second, 1024)
	res, err := client.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("want status recorded, got %d", res.StatusCode)
	}
}

func TestFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer ts.Close()

	client := NewClient(100*time.Millisecond, 50*time.Millisecond, 1024)
	if _, err := client.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"example.com", "https://example.com", true},
		{"  example.com/path ", "https://example.com/path", true},
		{"http://example.com", "http://example.com", true},
		{"", "", false},
		{"ftp://example.com", "", false},
	}
	for _, c := range cases {
		got, err := NormalizeURL(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("NormalizeURL(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Fatalf("NormalizeURL(%q) should fail", c.in)
		}
	}
}
