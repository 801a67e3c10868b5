package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"mcpradar/internal/domain"
)

// reportStore backs the digest builder with fixed weekly views.
type reportStore struct {
	fakeContentStore
	week     string
	articles []domain.RankedItem
	linkedin []domain.RankedItem
	reddit   []domain.RankedItem
}

func (r *reportStore) ArticlesByWeek(_ context.Context, week string) ([]domain.RankedItem, error) {
	r.week = week
	return r.articles, nil
}

func (r *reportStore) LinkedInPostsByWeek(context.Context, string) ([]domain.RankedItem, error) {
	return r.linkedin, nil
}

func (r *reportStore) RedditPostsByWeek(context.Context, string) ([]domain.RankedItem, error) {
	return r.reddit, nil
}

func TestWeeklyRanksAcrossKinds(t *testing.T) {
	t.Parallel()

	published := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	store := &reportStore{
		articles: []domain.RankedItem{{
			Kind: domain.KindBlogs, Title: "Article", Score: 0.71,
			SourceName: "Anthropic News", Authority: 0.9, PublishedAt: published,
			URL: "https://blog.example.com/mcp",
		}},
		linkedin: []domain.RankedItem{{
			Kind: domain.KindLinkedIn, Title: "Jane Doe", Score: 0.9,
			SourceName: "Jane Doe", Authority: 0.8, PublishedAt: published,
		}},
		reddit: []domain.RankedItem{{
			Kind: domain.KindReddit, Title: "Reddit post", Score: 0.5,
			SourceName: "mcp", Authority: 0.5, PublishedAt: published,
			KeyPoints: []string{"first point"},
		}},
	}

	digest, err := NewReportBuilder(store).Weekly(context.Background(), "2026-w07")
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}

	if store.week != "2026-w07" {
		t.Fatalf("queried week %q, want 2026-w07", store.week)
	}
	if !strings.Contains(digest, "MCP Radar weekly digest 2026-w07") {
		t.Fatalf("header missing:\n%s", digest)
	}
	if !strings.Contains(digest, "3 items: 1 articles, 1 linkedin posts, 1 reddit posts") {
		t.Fatalf("counts line missing:\n%s", digest)
	}

	jane := strings.Index(digest, "Jane Doe")
	article := strings.Index(digest, "Article")
	reddit := strings.Index(digest, "Reddit post")
	if !(jane < article && article < reddit) {
		t.Fatalf("items not ordered by score:\n%s", digest)
	}

	if !strings.Contains(digest, "• first point") {
		t.Fatalf("key points missing:\n%s", digest)
	}
	if !strings.Contains(digest, "https://blog.example.com/mcp") {
		t.Fatalf("article url missing:\n%s", digest)
	}
	if !strings.Contains(digest, "(authority 0.90)") {
		t.Fatalf("authority missing:\n%s", digest)
	}
}

func TestWeeklyEmptyWeek(t *testing.T) {
	t.Parallel()

	digest, err := NewReportBuilder(&reportStore{}).Weekly(context.Background(), "2026-w07")
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}
	if !strings.Contains(digest, "Nothing relevant was ingested this week.") {
		t.Fatalf("empty-week message missing:\n%s", digest)
	}
}

func TestScoreBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  float64
		filled int
	}{
		{score: 0, filled: 0},
		{score: 0.5, filled: 10},
		{score: 0.71, filled: 14},
		{score: 1, filled: 20},
		{score: 1.7, filled: 20},
	}

	for _, tt := range tests {
		bar := scoreBar(tt.score)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("scoreBar(%v) has %d filled cells, want %d", tt.score, got, tt.filled)
		}
		if total := strings.Count(bar, "█") + strings.Count(bar, "░"); total != 20 {
			t.Errorf("scoreBar(%v) width %d, want 20", tt.score, total)
		}
	}
}
