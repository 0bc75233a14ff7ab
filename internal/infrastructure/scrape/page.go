// Package scrape recovers preview metadata from arbitrary web pages for
// URL-kind generation.
package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/ports"
)

const userAgent = "Mozilla/5.0 (compatible; IdeaSparkBot/1.0)"

// PageScraper extracts title, meta description, and Open Graph preview
// image from page markup. Extraction is best-effort: a missing field
// degrades to an empty string, a failed fetch degrades to the URL itself
// as the title. Scraping never fails the generation run.
type PageScraper struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.PageScraper = (*PageScraper)(nil)

// New wires an HTTP client; a nil client gets a 20s-timeout default.
func New(client *http.Client, logger *slog.Logger) *PageScraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &PageScraper{client: client, logger: logger}
}

// Scrape fetches the page and extracts its preview tuple.
func (s *PageScraper) Scrape(ctx context.Context, pageURL string) domain.PagePreview {
	degraded := domain.PagePreview{Title: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		s.debug("build request failed", pageURL, err)
		return degraded
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.debug("fetch failed", pageURL, err)
		return degraded
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.debug("fetch returned non-200", pageURL, nil)
		return degraded
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.debug("parse failed", pageURL, err)
		return degraded
	}

	return extractPreview(doc, pageURL)
}

func extractPreview(doc *goquery.Document, pageURL string) domain.PagePreview {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = pageURL
	}

	description := ""
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if name, _ := sel.Attr("name"); strings.EqualFold(name, "description") {
			description = strings.TrimSpace(sel.AttrOr("content", ""))
			return false
		}
		return true
	})

	image := ""
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if prop, _ := sel.Attr("property"); strings.EqualFold(prop, "og:image") {
			image = strings.TrimSpace(sel.AttrOr("content", ""))
			return false
		}
		return true
	})

	return domain.PagePreview{Title: title, Description: description, ImageURL: image}
}

func (s *PageScraper) debug(msg, pageURL string, err error) {
	if s.logger != nil {
		s.logger.Debug("scrape degraded: "+msg, "url", pageURL, "error", err)
	}
}
