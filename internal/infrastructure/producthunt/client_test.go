package producthunt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/config"
)

func newTestClient(endpoint, token string) *Client {
	return NewClient(config.ProductHuntConfig{Endpoint: endpoint, APIToken: token}, nil)
}

func TestTopLaunchesMapsSources(t *testing.T) {
	t.Parallel()

	var capturedQuery string
	var capturedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		capturedQuery = payload["query"]

		_, _ = w.Write([]byte(`{"data":{"posts":{"edges":[
			{"node":{"id":"1","name":"Alpha","tagline":"tag a","description":"desc a","url":"https://ph/a","votesCount":120,"thumbnail":{"url":"https://img/a"}}},
			{"node":{"id":"2","name":"Beta","tagline":"tag b","description":"","url":"https://ph/b","votesCount":80}}
		]}}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "tok")
	sources, err := c.TopLaunches(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("TopLaunches returned error: %v", err)
	}

	if capturedAuth != "Bearer tok" {
		t.Fatalf("authorization header not sent: %q", capturedAuth)
	}
	if !strings.Contains(capturedQuery, `postedAfter: "2026-08-27T00:00:00Z"`) ||
		!strings.Contains(capturedQuery, `postedBefore: "2026-08-27T23:59:59Z"`) {
		t.Fatalf("day boundaries missing from query:\n%s", capturedQuery)
	}
	if !strings.Contains(capturedQuery, "first: 3, order: VOTES") {
		t.Fatalf("ordering/page-size missing from query:\n%s", capturedQuery)
	}

	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "Alpha" || sources[0].Upvotes != 120 || sources[0].ImageURL != "https://img/a" {
		t.Fatalf("unexpected first source: %+v", sources[0])
	}
	if sources[1].Description != "tag b" {
		t.Fatalf("empty description should fall back to tagline: %+v", sources[1])
	}
	if sources[1].ImageURL != "" {
		t.Fatalf("missing thumbnail should stay empty: %+v", sources[1])
	}
}

func TestTopLaunchesNoDateFilter(t *testing.T) {
	t.Parallel()

	var capturedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		capturedQuery = payload["query"]
		_, _ = w.Write([]byte(`{"data":{"posts":{"edges":[{"node":{"name":"X","tagline":"t","url":"u","votesCount":1}}]}}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")
	if _, err := c.TopLaunches(context.Background(), ""); err != nil {
		t.Fatalf("TopLaunches returned error: %v", err)
	}
	if strings.Contains(capturedQuery, "postedAfter") {
		t.Fatalf("empty date must not add a day filter:\n%s", capturedQuery)
	}
}

func TestTopLaunchesUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")
	_, err := c.TopLaunches(context.Background(), "2026-08-27")
	if !apperr.IsKind(err, apperr.KindUpstreamAuth) {
		t.Fatalf("expected upstream-auth kind, got %v", err)
	}
}

func TestTopLaunchesGraphQLErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "tok")
	_, err := c.TopLaunches(context.Background(), "2026-08-27")
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream kind, got %v", err)
	}
}

func TestTopLaunchesEmptyDay(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"posts":{"edges":[]}}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "tok")
	_, err := c.TopLaunches(context.Background(), "2026-08-27")
	if !apperr.IsKind(err, apperr.KindEmptyResult) {
		t.Fatalf("expected empty-result kind, got %v", err)
	}
}
