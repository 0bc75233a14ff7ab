// Package producthunt acquires trending launches from the Product Hunt
// GraphQL API.
package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/config"
	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/ports"
)

// topLaunchCount is how many launches one generation run consumes.
const topLaunchCount = 3

// Client fetches the day's top launches ordered by vote count.
type Client struct {
	endpoint   string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.LaunchSource = (*Client)(nil)

// NewClient wires an HTTP client; the token may be empty for the
// unauthenticated tier.
func NewClient(cfg config.ProductHuntConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger: logger,
	}
}

type graphQLResponse struct {
	Data *struct {
		Posts struct {
			Edges []struct {
				Node struct {
					ID          string `json:"id"`
					Name        string `json:"name"`
					Tagline     string `json:"tagline"`
					Description string `json:"description"`
					URL         string `json:"url"`
					VotesCount  int    `json:"votesCount"`
					Thumbnail   *struct {
						URL string `json:"url"`
					} `json:"thumbnail"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// TopLaunches returns the top launches for a calendar day (UTC day
// boundaries), ordered by votes. An empty date drops the day filter.
func (c *Client) TopLaunches(ctx context.Context, date string) ([]domain.Source, error) {
	query := buildQuery(date)

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "product hunt request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperr.UpstreamAuth("product hunt api requires authentication; set PRODUCT_HUNT_API_TOKEN")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("product hunt api error: %s", resp.Status)
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "decode product hunt response")
	}

	if len(decoded.Errors) > 0 {
		return nil, apperr.Upstream("product hunt graphql errors: %s", decoded.Errors[0].Message)
	}
	if decoded.Data == nil {
		return nil, apperr.Upstream("product hunt response carries no data")
	}

	edges := decoded.Data.Posts.Edges
	if len(edges) == 0 {
		return nil, apperr.EmptyResult("no launches found for %s", dateLabel(date))
	}

	sources := make([]domain.Source, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node
		description := node.Description
		if description == "" {
			description = node.Tagline
		}
		src := domain.Source{
			Name:        node.Name,
			Description: description,
			URL:         node.URL,
			Upvotes:     node.VotesCount,
		}
		if node.Thumbnail != nil {
			src.ImageURL = node.Thumbnail.URL
		}
		sources = append(sources, src)
	}

	if c.logger != nil {
		c.logger.Debug("fetched launches", "date", date, "count", len(sources))
	}
	return sources, nil
}

// buildQuery renders the posts query; day boundaries are
// [00:00:00Z, 23:59:59Z] for the given date.
func buildQuery(date string) string {
	dateFilter := ""
	if date != "" {
		dateFilter = fmt.Sprintf(`, postedAfter: "%sT00:00:00Z", postedBefore: "%sT23:59:59Z"`, date, date)
	}

	return fmt.Sprintf(`
    query {
      posts(first: %d, order: VOTES%s) {
        edges {
          node {
            id
            name
            tagline
            description
            url
            votesCount
            thumbnail {
              url
            }
          }
        }
      }
    }
  `, topLaunchCount, dateFilter)
}

func dateLabel(date string) string {
	if date == "" {
		return "today"
	}
	return date
}
