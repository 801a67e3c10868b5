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

const (
	linkedinMinContentChars = 50
	// Posts scoring at or above this 0-100 value count as relevant.
	linkedinRelevanceThreshold = 50
)

// LinkedInKind ingests posts from tracked profiles through the actor-based
// scraping service. Unlike the other kinds it keeps every fetched post:
// irrelevant ones are stored with post_score 0 so re-scrapes dedupe against
// them too.
type LinkedInKind struct {
	sources ports.SourceStore
	content ports.ContentStore
	analyze ports.Analyzer
	scraper ports.ProfileScraper
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

var _ ingest.Kind = (*LinkedInKind)(nil)

// NewLinkedInKind wires the LinkedIn pipeline capabilities.
func NewLinkedInKind(sources ports.SourceStore, content ports.ContentStore, analyzer ports.Analyzer, scraper ports.ProfileScraper, logger *slog.Logger) *LinkedInKind {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkedInKind{
		sources: sources,
		content: content,
		analyze: analyzer,
		scraper: scraper,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (k *LinkedInKind) Name() domain.SourceKind { return domain.KindLinkedIn }

func (k *LinkedInKind) ListSources(ctx context.Context) ([]domain.Source, error) {
	return k.sources.List(ctx, domain.KindLinkedIn)
}

func (k *LinkedInKind) FetchItems(ctx context.Context, src domain.Source) ([]ingest.RawItem, error) {
	posts, err := k.scraper.Posts(ctx, src.Address)
	if err != nil {
		return nil, err
	}

	return lo.Map(posts, func(post domain.ProfilePost, _ int) ingest.RawItem {
		published := post.PublishedAt
		return ingest.RawItem{
			Key:         post.ID,
			Author:      post.Author,
			Text:        post.Text,
			PublishedAt: &published,
		}
	}), nil
}

func (k *LinkedInKind) MinContentChars() int { return linkedinMinContentChars }

func (k *LinkedInKind) Exists(ctx context.Context, item ingest.RawItem) (bool, error) {
	return k.content.LinkedInPostExists(ctx, item.Key)
}

func (k *LinkedInKind) Classify(ctx context.Context, src domain.Source, item ingest.RawItem) (domain.Analysis, error) {
	return k.analyze.AnalyzeLinkedInPost(ctx, item.Author, item.Text)
}

// Store always inserts; an irrelevant post keeps its text but scores 0.
func (k *LinkedInKind) Store(ctx context.Context, src domain.Source, item ingest.RawItem, analysis domain.Analysis) (ingest.Outcome, error) {
	score := 0
	if analysis.Relevant {
		score = domain.Score100(analysis.QualityScore, src.Authority)
	}

	published := k.now().UTC()
	if item.PublishedAt != nil && !item.PublishedAt.IsZero() {
		published = item.PublishedAt.UTC()
	}

	post := domain.LinkedInPost{
		ID:              k.newID(),
		SourceID:        src.ID,
		PostID:          item.Key,
		Author:          item.Author,
		Content:         item.Text,
		Summary:         analysis.Summary,
		KeyPoints:       analysis.KeyPoints,
		QualityScore:    analysis.QualityScore,
		PostScore:       score,
		PublishedAt:     published,
		PublicationWeek: domain.PublicationWeek(published),
	}

	if err := k.content.InsertLinkedInPost(ctx, post); err != nil {
		return ingest.StoredIrrelevant, err
	}

	if score >= linkedinRelevanceThreshold {
		return ingest.Stored, nil
	}
	return ingest.StoredIrrelevant, nil
}
