package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/config"
	"IdeaSpark/internal/domain"
)

func newTestClient(endpoint string) *Client {
	return NewClient(config.AnthropicConfig{
		Endpoint:  endpoint,
		Model:     "claude-sonnet-4-20250514",
		APIKey:    "test-key",
		MaxTokens: 2000,
	})
}

func TestCompleteReturnsFirstSegment(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("anthropic-version header not set")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"content":[{"text":"first"},{"text":"second"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	text, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "first" {
		t.Fatalf("expected first segment, got %q", text)
	}
	if captured["model"] != "claude-sonnet-4-20250514" {
		t.Fatalf("model not sent: %v", captured["model"])
	}
	if captured["max_tokens"] != float64(2000) {
		t.Fatalf("max_tokens not sent: %v", captured["max_tokens"])
	}
}

func TestCompleteWithImageWirePayload(t *testing.T) {
	t.Parallel()

	var captured struct {
		Messages []struct {
			Content []struct {
				Type   string `json:"type"`
				Text   string `json:"text"`
				Source *struct {
					Type      string `json:"type"`
					MediaType string `json:"media_type"`
					Data      string `json:"data"`
				} `json:"source"`
			} `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"content":[{"text":"ok"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.CompleteWithImage(context.Background(), "describe", domain.ImageInput{
		MediaType:  "image/jpeg",
		Base64Data: "aGVsbG8=",
	})
	if err != nil {
		t.Fatalf("CompleteWithImage returned error: %v", err)
	}

	content := captured.Messages[0].Content
	if len(content) != 2 {
		t.Fatalf("expected image+text blocks, got %d", len(content))
	}
	if content[0].Type != "image" || content[0].Source == nil {
		t.Fatalf("first block must be the image: %+v", content[0])
	}
	if content[0].Source.Type != "base64" || content[0].Source.MediaType != "image/jpeg" || content[0].Source.Data != "aGVsbG8=" {
		t.Fatalf("unexpected image source: %+v", content[0].Source)
	}
	if content[1].Type != "text" || content[1].Text != "describe" {
		t.Fatalf("second block must be the prompt text: %+v", content[1])
	}
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error for a 503 response")
	}
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream kind, got %q", apperr.KindOf(err))
	}
}

func TestCompleteMissingAPIKey(t *testing.T) {
	t.Parallel()

	c := NewClient(config.AnthropicConfig{Endpoint: "http://unused", Model: "m"})
	_, err := c.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected a configuration error without an api key")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("expected configuration kind, got %q", apperr.KindOf(err))
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error for empty content")
	}
	if !apperr.IsKind(err, apperr.KindModelResponse) {
		t.Fatalf("expected model-response kind, got %q", apperr.KindOf(err))
	}
}
