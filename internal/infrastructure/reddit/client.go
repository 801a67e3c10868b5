// Package reddit reads the public, unauthenticated JSON listing endpoint of a
// subreddit.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mcpradar/internal/domain"
	"mcpradar/internal/ports"
)

const (
	defaultBaseURL = "https://www.reddit.com"
	defaultLimit   = 25
)

// Client lists recent posts. It fetches through the shared retry-fetch layer
// so listing requests carry the same browser headers and pacing as the rest
// of the system.
type Client struct {
	baseURL string
	limit   int
	fetcher ports.Fetcher
}

var _ ports.CommunityLister = (*Client)(nil)

// New wires the fetcher; limit falls back to 25.
func New(fetcher ports.Fetcher, limit int) *Client {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Client{
		baseURL: defaultBaseURL,
		limit:   limit,
		fetcher: fetcher,
	}
}

// SetBaseURL overrides the listing host (used for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				Permalink  string  `json:"permalink"`
				Subreddit  string  `json:"subreddit"`
				Author     string  `json:"author"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// RecentPosts fetches one fixed-size page of the newest posts.
func (c *Client) RecentPosts(ctx context.Context, subreddit string) ([]domain.CommunityPost, error) {
	subreddit = strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", c.baseURL, subreddit, c.limit)

	resp, err := c.fetcher.Get(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("list r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list r/%s: unexpected status %s", subreddit, resp.Status)
	}

	var page listing
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode r/%s listing: %w", subreddit, err)
	}

	posts := make([]domain.CommunityPost, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		data := child.Data
		posts = append(posts, domain.CommunityPost{
			ID:          data.ID,
			Title:       data.Title,
			Body:        data.SelfText,
			Permalink:   defaultBaseURL + data.Permalink,
			Subreddit:   data.Subreddit,
			Author:      data.Author,
			PublishedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}
