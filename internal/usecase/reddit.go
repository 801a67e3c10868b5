package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"mcpradar/internal/domain"
	"mcpradar/internal/ingest"
	"mcpradar/internal/ports"
)

// RedditKind ingests posts from tracked subreddits via the public listing
// endpoint. Dedupe runs on permalink first, then on the title+body digest to
// catch cross-posts.
type RedditKind struct {
	sources ports.SourceStore
	content ports.ContentStore
	analyze ports.Analyzer
	lister  ports.CommunityLister
	logger  *slog.Logger
	newID   func() string
}

var _ ingest.Kind = (*RedditKind)(nil)

// NewRedditKind wires the Reddit pipeline capabilities.
func NewRedditKind(sources ports.SourceStore, content ports.ContentStore, analyzer ports.Analyzer, lister ports.CommunityLister, logger *slog.Logger) *RedditKind {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedditKind{
		sources: sources,
		content: content,
		analyze: analyzer,
		lister:  lister,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

func (k *RedditKind) Name() domain.SourceKind { return domain.KindReddit }

func (k *RedditKind) ListSources(ctx context.Context) ([]domain.Source, error) {
	return k.sources.List(ctx, domain.KindReddit)
}

func (k *RedditKind) FetchItems(ctx context.Context, src domain.Source) ([]ingest.RawItem, error) {
	posts, err := k.lister.RecentPosts(ctx, src.Address)
	if err != nil {
		return nil, err
	}

	return lo.Map(posts, func(post domain.CommunityPost, _ int) ingest.RawItem {
		published := post.PublishedAt
		return ingest.RawItem{
			Key:         post.Permalink,
			Title:       post.Title,
			Text:        post.Body,
			PublishedAt: &published,
		}
	}), nil
}

// MinContentChars is zero: title-only posts are still worth classifying.
func (k *RedditKind) MinContentChars() int { return 0 }

func (k *RedditKind) Exists(ctx context.Context, item ingest.RawItem) (bool, error) {
	return k.content.RedditPostExists(ctx, item.Key, domain.ContentHash(item.Title, item.Text))
}

func (k *RedditKind) Classify(ctx context.Context, src domain.Source, item ingest.RawItem) (domain.Analysis, error) {
	return k.analyze.AnalyzeRedditPost(ctx, item.Title, item.Text)
}

func (k *RedditKind) Store(ctx context.Context, src domain.Source, item ingest.RawItem, analysis domain.Analysis) (ingest.Outcome, error) {
	if !analysis.Relevant {
		return ingest.SkippedIrrelevant, nil
	}

	published := time.Now().UTC()
	if item.PublishedAt != nil && !item.PublishedAt.IsZero() {
		published = item.PublishedAt.UTC()
	}

	post := domain.RedditPost{
		ID:              k.newID(),
		SourceID:        src.ID,
		Permalink:       item.Key,
		ContentHash:     domain.ContentHash(item.Title, item.Text),
		Title:           item.Title,
		Content:         item.Text,
		Summary:         analysis.Summary,
		KeyPoints:       analysis.KeyPoints,
		QualityScore:    analysis.QualityScore,
		PostScore:       domain.Score(analysis.QualityScore, src.Authority),
		PublishedAt:     published,
		PublicationWeek: domain.PublicationWeek(published),
	}

	if err := k.content.InsertRedditPost(ctx, post); err != nil {
		return ingest.SkippedIrrelevant, err
	}
	return ingest.Stored, nil
}
