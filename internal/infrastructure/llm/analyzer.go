package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"mcpradar/internal/domain"
	"mcpradar/internal/ports"
)

// Input truncation bounds per content type, to cap cost and latency.
const (
	maxArticleChars  = 10000
	maxRedditChars   = 8000
	maxLinkedInChars = 5000

	temperature = 0.3
	maxTokens   = 1024
)

// Analyzer classifies scraped content through a chat-completion endpoint.
// Classification never fails on model output: an unparseable reply becomes a
// negative verdict with Parsed=false, and only transport errors propagate.
type Analyzer struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

var _ ports.Analyzer = (*Analyzer)(nil)

// New builds an analyzer against an OpenAI-compatible endpoint.
func New(apiKey, baseURL, model string, logger *slog.Logger) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// ExtractArticleList asks the model to pull the article listing out of
// link-annotated homepage text. A reply that cannot be decoded yields an
// empty list, not an error.
func (a *Analyzer) ExtractArticleList(ctx context.Context, pageText string) ([]domain.ArticleCandidate, error) {
	system := RenderPrompt(articleListPrompt, map[string]string{"site_name": ""})
	reply, err := a.complete(ctx, system, truncate(pageText, maxArticleChars))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			PublishedAt string `json:"published_at"`
		} `json:"articles"`
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), &payload); err != nil {
		a.logger.Warn("article list reply unparseable, treating as empty", "error", err)
		return []domain.ArticleCandidate{}, nil
	}

	candidates := make([]domain.ArticleCandidate, 0, len(payload.Articles))
	for _, art := range payload.Articles {
		if art.URL == "" {
			continue
		}
		candidates = append(candidates, domain.ArticleCandidate{
			Title:       art.Title,
			URL:         art.URL,
			PublishedAt: parseDate(art.PublishedAt),
		})
	}
	return candidates, nil
}

// AnalyzeArticle classifies a blog article for MCP relevance and quality.
func (a *Analyzer) AnalyzeArticle(ctx context.Context, title, text string) (domain.Analysis, error) {
	system := RenderPrompt(articleAnalysisPrompt, map[string]string{"title": title})
	reply, err := a.complete(ctx, system, truncate(text, maxArticleChars))
	if err != nil {
		return domain.NotRelevant(), err
	}
	return a.decodeAnalysis(reply), nil
}

// AnalyzeLinkedInPost classifies a LinkedIn post.
func (a *Analyzer) AnalyzeLinkedInPost(ctx context.Context, author, text string) (domain.Analysis, error) {
	system := RenderPrompt(linkedinAnalysisPrompt, map[string]string{"author": author})
	reply, err := a.complete(ctx, system, truncate(text, maxLinkedInChars))
	if err != nil {
		return domain.NotRelevant(), err
	}
	return a.decodeAnalysis(reply), nil
}

// AnalyzeRedditPost classifies a Reddit post.
func (a *Analyzer) AnalyzeRedditPost(ctx context.Context, title, body string) (domain.Analysis, error) {
	system := RenderPrompt(redditAnalysisPrompt, map[string]string{"title": title})
	reply, err := a.complete(ctx, system, truncate(body, maxRedditChars))
	if err != nil {
		return domain.NotRelevant(), err
	}
	return a.decodeAnalysis(reply), nil
}

func (a *Analyzer) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type analysisPayload struct {
	IsMCPRelated    *bool    `json:"is_mcp_related"`
	IsRelevant      *bool    `json:"is_relevant"`
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	QualityScore    float64  `json:"quality_score"`
	RelevanceReason string   `json:"relevance_reason"`
}

// decodeAnalysis normalizes a model reply into a domain verdict: fences
// stripped, scores clamped to [0,1], missing arrays defaulted to empty. An
// undecodable reply folds into the same negative default as a genuine "no",
// distinguishable only through the Parsed flag and this log line.
func (a *Analyzer) decodeAnalysis(reply string) domain.Analysis {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(stripFences(reply)), &payload); err != nil {
		a.logger.Warn("model reply unparseable, treating as not relevant", "error", err)
		return domain.NotRelevant()
	}

	relevant := false
	if payload.IsMCPRelated != nil {
		relevant = *payload.IsMCPRelated
	}
	if payload.IsRelevant != nil {
		relevant = relevant || *payload.IsRelevant
	}

	keyPoints := payload.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return domain.Analysis{
		Relevant:        relevant,
		Summary:         payload.Summary,
		KeyPoints:       keyPoints,
		QualityScore:    domain.Clamp01(payload.QualityScore),
		RelevanceReason: payload.RelevanceReason,
		Parsed:          true,
	}
}

// stripFences removes a leading ```json or ``` fence and a trailing ```
// fence; bare JSON passes through untouched.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "January 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
