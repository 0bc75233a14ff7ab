// Package llm talks to the Anthropic messages API and recovers structured
// idea payloads from loosely-formatted model text.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/config"
	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/ports"
)

const anthropicVersion = "2023-06-01"

// Client implements ports.ChatClient against the messages endpoint. One
// call per generation, no retry, no streaming.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

var _ ports.ChatClient = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.AnthropicConfig) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 3000
	}
	return &Client{
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// Complete sends a text-only prompt and returns the raw text of the first
// response segment.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, prompt)
}

// CompleteWithImage sends an inline base64 image followed by the prompt
// text in a single user message.
func (c *Client) CompleteWithImage(ctx context.Context, prompt string, img domain.ImageInput) (string, error) {
	blocks := []contentBlock{
		{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.Base64Data,
			},
		},
		{Type: "text", Text: prompt},
	}
	return c.send(ctx, blocks)
}

func (c *Client) send(ctx context.Context, content any) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Configuration("anthropic api key is not configured")
	}

	body, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages":   []message{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal claude payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, err, "claude api call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", apperr.Upstream("claude api error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var decoded struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, err, "decode claude response")
	}
	if len(decoded.Content) == 0 {
		return "", apperr.ModelResponse("claude response carries no content segments")
	}

	return decoded.Content[0].Text, nil
}
