// Package rpcdb executes SQL text against a remote SQL-over-JSON-RPC proxy.
// The proxy speaks the tools/call envelope and may answer either with a plain
// JSON document or with server-sent-event framed text; both are handled.
package rpcdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mcpradar/internal/ports"
)

// Client is a reusable proxy connection. Construct it once at startup and
// inject it; per-call construction re-reads no configuration.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

var _ ports.SQLExecutor = (*Client)(nil)

// New wires the proxy endpoint and bearer token.
func New(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcEnvelope struct {
	Result *toolResult `json:"result"`
	Error  *rpcError   `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolResult struct {
	IsError           bool               `json:"isError"`
	Content           []contentBlock     `json:"content"`
	StructuredContent *structuredContent `json:"structuredContent"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type structuredContent struct {
	Results []map[string]any `json:"results"`
}

// Execute sends one SQL statement through a tools/call envelope and
// normalizes whichever response shape the proxy picked into rows.
func (c *Client) Execute(ctx context.Context, statement string) ([]map[string]any, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params: rpcParams{
			Name:      "execute_sql",
			Arguments: map[string]any{"sql": statement},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call database proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("database proxy %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read proxy response: %w", err)
	}

	payload := raw
	if isEventStream(resp.Header.Get("Content-Type"), raw) {
		payload = unwrapEventStream(raw)
	}

	return parseEnvelope(payload)
}

func isEventStream(contentType string, raw []byte) bool {
	if strings.Contains(contentType, "text/event-stream") {
		return true
	}
	trimmed := bytes.TrimSpace(raw)
	return bytes.HasPrefix(trimmed, []byte("event:")) || bytes.HasPrefix(trimmed, []byte("data:"))
}

// unwrapEventStream joins the payloads of all data: lines. The proxy sends
// the full JSON-RPC response as one event but may split it across lines.
func unwrapEventStream(raw []byte) []byte {
	var out bytes.Buffer
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			out.WriteString(strings.TrimSpace(rest))
		}
	}
	return out.Bytes()
}

// parseEnvelope normalizes the two envelope generations the proxy has used:
// the structured shape with a nested results array, and the older shape where
// content carries a JSON string needing a second decode, which may itself be
// an error object, a single row, or a row array.
func parseEnvelope(payload []byte) ([]map[string]any, error) {
	var env rpcEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode rpc envelope: %w", err)
	}

	if env.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", env.Error.Code, env.Error.Message)
	}
	if env.Result == nil {
		return nil, fmt.Errorf("rpc response missing result")
	}

	if env.Result.StructuredContent != nil {
		rows := env.Result.StructuredContent.Results
		if rows == nil {
			rows = []map[string]any{}
		}
		return rows, nil
	}

	text := firstText(env.Result.Content)
	if env.Result.IsError {
		return nil, fmt.Errorf("sql error: %s", strings.TrimSpace(text))
	}
	if strings.TrimSpace(text) == "" {
		return []map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("decode result payload: %w", err)
	}

	switch v := decoded.(type) {
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, entry := range v {
			if row, ok := entry.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		return rows, nil
	case map[string]any:
		if msg, ok := v["error"]; ok {
			return nil, fmt.Errorf("sql error: %v", msg)
		}
		return []map[string]any{v}, nil
	default:
		return []map[string]any{}, nil
	}
}

func firstText(blocks []contentBlock) string {
	for _, b := range blocks {
		if b.Type == "" || b.Type == "text" {
			return b.Text
		}
	}
	return ""
}
