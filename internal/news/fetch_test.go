package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const googleFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<item>
  <title>Apple unveils new chip - TechWire</title>
  <pubDate>Sat, 15 Jun 2024 09:30:00 +0000</pubDate>
  <description>&lt;p&gt;Apple announced a &lt;b&gt;new processor&lt;/b&gt; today.&lt;/p&gt;</description>
</item>
<item>
  <title>Old story - TechWire</title>
  <pubDate>Mon, 01 Jan 2018 00:00:00 +0000</pubDate>
  <description>outside the window</description>
</item>
</channel></rss>`

func TestFetchGoogleNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "AAPL stock" {
			t.Errorf("query = %q, want %q", q, "AAPL stock")
		}
		w.Write([]byte(googleFeed))
	}))
	defer srv.Close()

	f := NewFetcherWithBaseURLs(srv.URL, srv.URL)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	articles, err := f.FetchGoogleNews(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("FetchGoogleNews: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1 (out-of-window item filtered)", len(articles))
	}
	a := articles[0]
	if a.Headline != "Apple unveils new chip" {
		t.Errorf("headline = %q, publisher suffix not stripped", a.Headline)
	}
	if a.Content != "Apple announced a new processor today." {
		t.Errorf("content = %q, HTML not stripped", a.Content)
	}
	if a.Source != "google" {
		t.Errorf("source = %q, want google", a.Source)
	}
}

func TestFetchGlobeNewswireStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcherWithBaseURLs(srv.URL, srv.URL)
	_, err := f.FetchGlobeNewswire(context.Background(), "AAPL", time.Time{}, time.Now())
	if err == nil {
		t.Fatal("FetchGlobeNewswire accepted a 503 response")
	}
}

func TestFetchAllDegradesOnSourceFailure(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(googleFeed))
	}))
	defer google.Close()
	globe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer globe.Close()

	f := NewFetcherWithBaseURLs(google.URL, globe.URL)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	articles, err := f.FetchAll(context.Background(), "AAPL", start, end)
	if err == nil {
		t.Error("FetchAll did not report the failing source")
	}
	if len(articles) != 1 {
		t.Errorf("got %d articles, want 1 from the healthy source", len(articles))
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<p>Hello &amp; <b>world</b></p>   extra`)
	want := "Hello & world extra"
	if got != want {
		t.Errorf("StripHTML = %q, want %q", got, want)
	}
}

func TestExtractSymbolContent(t *testing.T) {
	raw := `<p>AAPL rallied today.</p><p>Unrelated paragraph.</p>`
	got := ExtractSymbolContent(raw, "aapl")
	if got != "AAPL rallied today." {
		t.Errorf("ExtractSymbolContent = %q", got)
	}

	// No paragraph mentions the symbol: fall back to everything.
	raw = `<p>General market news.</p>`
	got = ExtractSymbolContent(raw, "TSLA")
	if got != "General market news." {
		t.Errorf("fallback = %q", got)
	}
}
