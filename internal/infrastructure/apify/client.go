// Package apify drives the actor-based scraping service used for LinkedIn
// profiles: submit a run, poll its status, then fetch the result dataset.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mcpradar/internal/domain"
	"mcpradar/internal/ports"
)

const (
	defaultBaseURL      = "https://api.apify.com"
	defaultPollInterval = 2 * time.Second
	defaultMaxPolls     = 30
)

// Client talks to the actor job API.
type Client struct {
	baseURL      string
	token        string
	actorID      string
	http         *http.Client
	pollInterval time.Duration
	maxPolls     int
	sleep        func(time.Duration)
	logger       *slog.Logger
}

var _ ports.ProfileScraper = (*Client)(nil)

// New wires the actor id and API token.
func New(token, actorID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:      defaultBaseURL,
		token:        token,
		actorID:      actorID,
		http:         &http.Client{Timeout: 30 * time.Second},
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		sleep:        time.Sleep,
		logger:       logger,
	}
}

// SetBaseURL overrides the API host (used for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runData `json:"data"`
}

type datasetItem struct {
	URN        string `json:"urn"`
	Text       string `json:"text"`
	URL        string `json:"url"`
	PostedAt   string `json:"posted_at"`
	AuthorName string `json:"author_name"`
}

// Posts runs the actor for one profile URL and maps the dataset into posts.
func (c *Client) Posts(ctx context.Context, profileURL string) ([]domain.ProfilePost, error) {
	if c.token == "" {
		return nil, fmt.Errorf("apify token is not configured")
	}

	run, err := c.startRun(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	datasetID, err := c.waitForRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	return c.fetchDataset(ctx, datasetID)
}

func (c *Client) startRun(ctx context.Context, profileURL string) (runData, error) {
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", c.baseURL, c.actorID, c.token)

	payload, err := json.Marshal(map[string]any{
		"profileUrls": []string{profileURL},
	})
	if err != nil {
		return runData{}, fmt.Errorf("marshal actor input: %w", err)
	}

	var env runEnvelope
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &env); err != nil {
		return runData{}, fmt.Errorf("start actor run: %w", err)
	}
	if env.Data.ID == "" {
		return runData{}, fmt.Errorf("start actor run: empty run id")
	}

	c.logger.Debug("actor run started", "run_id", env.Data.ID, "profile", profileURL)
	return env.Data, nil
}

// waitForRun polls the run a bounded number of times; there is no other
// timeout on the job.
func (c *Client) waitForRun(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", c.baseURL, runID, c.token)

	for attempt := 0; attempt < c.maxPolls; attempt++ {
		c.sleep(c.pollInterval)

		var env runEnvelope
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &env); err != nil {
			return "", fmt.Errorf("poll actor run %s: %w", runID, err)
		}

		switch env.Data.Status {
		case "SUCCEEDED":
			return env.Data.DefaultDatasetID, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return "", fmt.Errorf("actor run %s ended with status %s", runID, env.Data.Status)
		}
	}

	return "", fmt.Errorf("actor run %s still not finished after %d polls", runID, c.maxPolls)
}

func (c *Client) fetchDataset(ctx context.Context, datasetID string) ([]domain.ProfilePost, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json", c.baseURL, datasetID, c.token)

	var items []datasetItem
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", datasetID, err)
	}

	posts := make([]domain.ProfilePost, 0, len(items))
	for _, item := range items {
		posts = append(posts, domain.ProfilePost{
			ID:          item.URN,
			Author:      item.AuthorName,
			Text:        item.Text,
			URL:         item.URL,
			PublishedAt: parsePostedAt(item.PostedAt),
		})
	}
	return posts, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parsePostedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
