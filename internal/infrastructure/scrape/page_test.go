package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestScrapeExtractsPreview(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); !strings.Contains(got, "IdeaSparkBot") {
			t.Errorf("descriptive user agent missing, got %q", got)
		}
		_, _ = w.Write([]byte(`<html><head>
			<title> Launchpad — build faster </title>
			<meta name="description" content="Ship side projects in hours.">
			<meta property="og:image" content="https://cdn.example.com/preview.png">
		</head><body></body></html>`))
	}))
	defer server.Close()

	s := New(server.Client(), nil)
	preview := s.Scrape(context.Background(), server.URL)

	if preview.Title != "Launchpad — build faster" {
		t.Fatalf("unexpected title: %q", preview.Title)
	}
	if preview.Description != "Ship side projects in hours." {
		t.Fatalf("unexpected description: %q", preview.Description)
	}
	if preview.ImageURL != "https://cdn.example.com/preview.png" {
		t.Fatalf("unexpected image: %q", preview.ImageURL)
	}
}

func TestScrapeAttributeOrderIndependent(t *testing.T) {
	t.Parallel()

	html := `<head>
		<meta content="reversed order desc" name="description">
		<meta content="https://img/x.png" property="og:image">
	</head>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	preview := extractPreview(doc, "https://example.com")
	if preview.Description != "reversed order desc" {
		t.Fatalf("description not found with reversed attributes: %q", preview.Description)
	}
	if preview.ImageURL != "https://img/x.png" {
		t.Fatalf("og:image not found with reversed attributes: %q", preview.ImageURL)
	}
}

func TestScrapeMissingFieldsDegrade(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>no metadata here</body></html>`))
	}))
	defer server.Close()

	s := New(server.Client(), nil)
	preview := s.Scrape(context.Background(), server.URL)

	if preview.Title != server.URL {
		t.Fatalf("missing title should degrade to the url, got %q", preview.Title)
	}
	if preview.Description != "" || preview.ImageURL != "" {
		t.Fatalf("missing fields should degrade to empty strings: %+v", preview)
	}
}

func TestScrapeFetchFailureDegrades(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	s := New(server.Client(), nil)
	preview := s.Scrape(context.Background(), server.URL)

	if preview.Title != server.URL || preview.Description != "" {
		t.Fatalf("fetch failure should degrade to {title: url}: %+v", preview)
	}
}

func TestScrapeUnreachableHostDegrades(t *testing.T) {
	t.Parallel()

	s := New(&http.Client{}, nil)
	preview := s.Scrape(context.Background(), "http://127.0.0.1:1/nothing")

	if preview.Title != "http://127.0.0.1:1/nothing" {
		t.Fatalf("unreachable host should degrade to {title: url}: %+v", preview)
	}
}
