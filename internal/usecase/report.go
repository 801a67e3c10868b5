package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"mcpradar/internal/domain"
	"mcpradar/internal/ports"
)

const scoreBarWidth = 20

// ReportBuilder renders the weekly digest: all content kinds for one
// publication week, ranked by post score.
type ReportBuilder struct {
	content ports.ContentStore
}

// NewReportBuilder wires the content store.
func NewReportBuilder(content ports.ContentStore) *ReportBuilder {
	return &ReportBuilder{content: content}
}

// Weekly assembles the digest for a YYYY-wWW label. An empty week defaults to
// the current one.
func (b *ReportBuilder) Weekly(ctx context.Context, week string) (string, error) {
	if week == "" {
		week = domain.PublicationWeek(time.Now())
	}

	articles, err := b.content.ArticlesByWeek(ctx, week)
	if err != nil {
		return "", fmt.Errorf("collect articles: %w", err)
	}
	linkedin, err := b.content.LinkedInPostsByWeek(ctx, week)
	if err != nil {
		return "", fmt.Errorf("collect linkedin posts: %w", err)
	}
	reddit, err := b.content.RedditPostsByWeek(ctx, week)
	if err != nil {
		return "", fmt.Errorf("collect reddit posts: %w", err)
	}

	items := make([]domain.RankedItem, 0, len(articles)+len(linkedin)+len(reddit))
	items = append(items, articles...)
	items = append(items, linkedin...)
	items = append(items, reddit...)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	var out strings.Builder
	fmt.Fprintf(&out, "MCP Radar weekly digest %s\n", week)
	fmt.Fprintf(&out, "%d items: %d articles, %d linkedin posts, %d reddit posts\n\n",
		len(items), len(articles), len(linkedin), len(reddit))

	if len(items) == 0 {
		out.WriteString("Nothing relevant was ingested this week.\n")
		return out.String(), nil
	}

	for i, item := range items {
		fmt.Fprintf(&out, "%2d. [%s] %s\n", i+1, item.Kind, item.Title)
		fmt.Fprintf(&out, "    %s %.2f\n", scoreBar(item.Score), item.Score)
		fmt.Fprintf(&out, "    %s (authority %.2f) | %s\n",
			item.SourceName, item.Authority, item.PublishedAt.Format("2006-01-02"))
		if item.Summary != "" {
			fmt.Fprintf(&out, "    %s\n", item.Summary)
		}
		for _, point := range item.KeyPoints {
			fmt.Fprintf(&out, "    • %s\n", point)
		}
		if item.URL != "" {
			fmt.Fprintf(&out, "    %s\n", item.URL)
		}
		out.WriteByte('\n')
	}

	return out.String(), nil
}

// scoreBar renders a fixed-width bar for a [0,1] score.
func scoreBar(score float64) string {
	filled := int(math.Round(domain.Clamp01(score) * scoreBarWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", scoreBarWidth-filled)
}
