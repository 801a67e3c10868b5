package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"mcpradar/internal/ports"
)

const (
	defaultMaxRetries = 3
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes      = 2 << 20
)

// Client wraps HTTP GET with browser headers and a fixed per-attempt delay
// schedule (1s, 2s, 3s). Despite the retry count, the backoff is fixed-step,
// not exponential.
type Client struct {
	http       *http.Client
	maxRetries int
	sleep      func(time.Duration)
}

var _ ports.Fetcher = (*Client)(nil)

// New wires an HTTP client; a nil client gets a 20s timeout default.
func New(client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		http:       client,
		maxRetries: defaultMaxRetries,
		sleep:      time.Sleep,
	}
}

// Get fetches url, retrying transport errors and non-2xx responses up to
// maxRetries extra attempts. It returns the last response even when it is
// non-2xx; it returns the last transport error only if every attempt failed
// at the transport level.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	var (
		lastResp *http.Response
		lastErr  error
	)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", defaultUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if lastResp != nil {
			drain(lastResp)
		}
		lastResp = resp
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

// FetchText fetches url and returns the response body as a string, treating a
// final non-2xx response as an error.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
