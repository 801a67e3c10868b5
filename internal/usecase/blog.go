package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mcpradar/internal/domain"
	"mcpradar/internal/infrastructure/htmltext"
	"mcpradar/internal/infrastructure/webfetch"
	"mcpradar/internal/ingest"
	"mcpradar/internal/ports"
)

const (
	blogMinContentChars = 200
	blogFreshnessWindow = 7 * 24 * time.Hour
	candidateDelay      = 350 * time.Millisecond
)

// BlogKind ingests blog articles: the homepage is reduced to link-annotated
// text, the model extracts the article list from it, and every candidate page
// is fetched and classified individually.
type BlogKind struct {
	sources  ports.SourceStore
	content  ports.ContentStore
	analyzer ports.Analyzer
	fetcher  *webfetch.Client
	logger   *slog.Logger
	now      func() time.Time
	pause    func(time.Duration)
	newID    func() string
}

var _ ingest.Kind = (*BlogKind)(nil)

// NewBlogKind wires the blog pipeline capabilities.
func NewBlogKind(sources ports.SourceStore, content ports.ContentStore, analyzer ports.Analyzer, fetcher *webfetch.Client, logger *slog.Logger) *BlogKind {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogKind{
		sources:  sources,
		content:  content,
		analyzer: analyzer,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
		pause:    time.Sleep,
		newID:    uuid.NewString,
	}
}

func (k *BlogKind) Name() domain.SourceKind { return domain.KindBlogs }

func (k *BlogKind) ListSources(ctx context.Context) ([]domain.Source, error) {
	return k.sources.List(ctx, domain.KindBlogs)
}

// FetchItems fetches the homepage, extracts its article candidates through
// the model, then fetches each candidate page. A failing candidate is logged
// and dropped without aborting the rest.
func (k *BlogKind) FetchItems(ctx context.Context, src domain.Source) ([]ingest.RawItem, error) {
	page, err := k.fetcher.FetchText(ctx, src.Address)
	if err != nil {
		return nil, fmt.Errorf("fetch homepage: %w", err)
	}

	annotated, err := htmltext.WithLinks(page, src.Address)
	if err != nil {
		return nil, fmt.Errorf("extract homepage text: %w", err)
	}

	candidates, err := k.analyzer.ExtractArticleList(ctx, annotated)
	if err != nil {
		return nil, fmt.Errorf("extract article list: %w", err)
	}

	items := make([]ingest.RawItem, 0, len(candidates))
	for i, candidate := range candidates {
		if i > 0 {
			k.pause(candidateDelay)
		}

		body, err := k.fetcher.FetchText(ctx, candidate.URL)
		if err != nil {
			k.logger.Warn("article fetch failed, skipping", "url", candidate.URL, "error", err)
			continue
		}

		text, err := htmltext.Plain(body)
		if err != nil {
			k.logger.Warn("article extraction failed, skipping", "url", candidate.URL, "error", err)
			continue
		}
		if !htmltext.LongEnough(text, 0) {
			k.logger.Debug("extracted page nearly empty, skipping", "url", candidate.URL)
			continue
		}

		items = append(items, ingest.RawItem{
			Key:         candidate.URL,
			Title:       candidate.Title,
			Text:        text,
			PublishedAt: candidate.PublishedAt,
		})
	}
	return items, nil
}

func (k *BlogKind) MinContentChars() int { return blogMinContentChars }

// Exists always reports false: articles persist through an upsert keyed by
// URL, so a re-ingested article refreshes its analysis instead of skipping.
func (k *BlogKind) Exists(ctx context.Context, item ingest.RawItem) (bool, error) {
	return false, nil
}

func (k *BlogKind) Classify(ctx context.Context, src domain.Source, item ingest.RawItem) (domain.Analysis, error) {
	return k.analyzer.AnalyzeArticle(ctx, item.Title, item.Text)
}

// Store filters on relevance, resolves a missing publish date to now, drops
// articles older than the freshness window, then upserts the scored row.
func (k *BlogKind) Store(ctx context.Context, src domain.Source, item ingest.RawItem, analysis domain.Analysis) (ingest.Outcome, error) {
	if !analysis.Relevant {
		return ingest.SkippedIrrelevant, nil
	}

	now := k.now().UTC()
	published := now
	if item.PublishedAt != nil {
		published = item.PublishedAt.UTC()
	}
	if now.Sub(published) > blogFreshnessWindow {
		return ingest.SkippedStale, nil
	}

	article := domain.Article{
		ID:              k.newID(),
		SourceID:        src.ID,
		URL:             item.Key,
		Title:           item.Title,
		Summary:         analysis.Summary,
		KeyPoints:       analysis.KeyPoints,
		QualityScore:    analysis.QualityScore,
		PostScore:       domain.Score(analysis.QualityScore, src.Authority),
		PublishedAt:     published,
		PublicationWeek: domain.PublicationWeek(published),
	}

	if err := k.content.UpsertArticle(ctx, article); err != nil {
		return ingest.SkippedIrrelevant, err
	}
	return ingest.Stored, nil
}
