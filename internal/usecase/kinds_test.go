package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"mcpradar/internal/domain"
	"mcpradar/internal/ingest"
)

// fakeContentStore records everything the pipelines try to persist.
type fakeContentStore struct {
	articles      []domain.Article
	linkedinPosts []domain.LinkedInPost
	redditPosts   []domain.RedditPost
	linkedinIDs   map[string]bool
	redditHashes  map[string]bool
	redditLinks   map[string]bool
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		linkedinIDs:  map[string]bool{},
		redditHashes: map[string]bool{},
		redditLinks:  map[string]bool{},
	}
}

func (f *fakeContentStore) UpsertArticle(_ context.Context, a domain.Article) error {
	f.articles = append(f.articles, a)
	return nil
}

func (f *fakeContentStore) InsertLinkedInPost(_ context.Context, p domain.LinkedInPost) error {
	f.linkedinPosts = append(f.linkedinPosts, p)
	return nil
}

func (f *fakeContentStore) InsertRedditPost(_ context.Context, p domain.RedditPost) error {
	f.redditPosts = append(f.redditPosts, p)
	return nil
}

func (f *fakeContentStore) LinkedInPostExists(_ context.Context, postID string) (bool, error) {
	return f.linkedinIDs[postID], nil
}

func (f *fakeContentStore) RedditPostExists(_ context.Context, permalink, contentHash string) (bool, error) {
	return f.redditLinks[permalink] || f.redditHashes[contentHash], nil
}

func (f *fakeContentStore) ArticlesByWeek(context.Context, string) ([]domain.RankedItem, error) {
	return nil, nil
}

func (f *fakeContentStore) LinkedInPostsByWeek(context.Context, string) ([]domain.RankedItem, error) {
	return nil, nil
}

func (f *fakeContentStore) RedditPostsByWeek(context.Context, string) ([]domain.RankedItem, error) {
	return nil, nil
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}

func TestBlogStoreSkipsIrrelevant(t *testing.T) {
	t.Parallel()

	store := newFakeContentStore()
	kind := &BlogKind{content: store, logger: discardLogger(), now: time.Now, newID: sequentialIDs()}

	outcome, err := kind.Store(context.Background(), domain.Source{}, ingest.RawItem{Key: "u"}, domain.NotRelevant())
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if outcome != ingest.SkippedIrrelevant {
		t.Fatalf("outcome = %v, want SkippedIrrelevant", outcome)
	}
	if len(store.articles) != 0 {
		t.Fatal("irrelevant article must not be persisted")
	}
}

func TestBlogStoreSkipsStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-8 * 24 * time.Hour)

	store := newFakeContentStore()
	kind := &BlogKind{content: store, logger: discardLogger(), now: fixedClock(now), newID: sequentialIDs()}

	outcome, err := kind.Store(context.Background(), domain.Source{}, ingest.RawItem{Key: "u", PublishedAt: &old},
		domain.Analysis{Relevant: true, QualityScore: 0.9, Parsed: true})
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if outcome != ingest.SkippedStale {
		t.Fatalf("outcome = %v, want SkippedStale", outcome)
	}
	if len(store.articles) != 0 {
		t.Fatal("stale article must not be persisted")
	}
}

func TestBlogStoreScoresAndUpserts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	published := now.Add(-2 * 24 * time.Hour)

	store := newFakeContentStore()
	kind := &BlogKind{content: store, logger: discardLogger(), now: fixedClock(now), newID: sequentialIDs()}

	src := domain.Source{ID: "blog-1", Authority: 0.5}
	item := ingest.RawItem{Key: "https://blog.example.com/mcp", Title: "MCP", PublishedAt: &published}
	analysis := domain.Analysis{Relevant: true, QualityScore: 0.8, Summary: "s", KeyPoints: []string{"a"}, Parsed: true}

	outcome, err := kind.Store(context.Background(), src, item, analysis)
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if outcome != ingest.Stored {
		t.Fatalf("outcome = %v, want Stored", outcome)
	}

	if len(store.articles) != 1 {
		t.Fatalf("expected one upsert, got %d", len(store.articles))
	}
	got := store.articles[0]
	if got.PostScore != 0.71 {
		t.Fatalf("post score = %v, want 0.71", got.PostScore)
	}
	if got.PublicationWeek != domain.PublicationWeek(published) {
		t.Fatalf("publication week = %q", got.PublicationWeek)
	}
	if !got.PublishedAt.Equal(published) {
		t.Fatalf("published_at = %v, want %v", got.PublishedAt, published)
	}
}

func TestBlogStoreDefaultsMissingDateToNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeContentStore()
	kind := &BlogKind{content: store, logger: discardLogger(), now: fixedClock(now), newID: sequentialIDs()}

	outcome, err := kind.Store(context.Background(), domain.Source{Authority: 1}, ingest.RawItem{Key: "u"},
		domain.Analysis{Relevant: true, QualityScore: 0.9, Parsed: true})
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if outcome != ingest.Stored {
		t.Fatalf("outcome = %v, want Stored", outcome)
	}
	if !store.articles[0].PublishedAt.Equal(now) {
		t.Fatalf("missing date must default to now, got %v", store.articles[0].PublishedAt)
	}
}

func TestLinkedInStoreKeepsIrrelevantWithZeroScore(t *testing.T) {
	t.Parallel()

	store := newFakeContentStore()
	kind := &LinkedInKind{content: store, logger: discardLogger(), now: time.Now, newID: sequentialIDs()}

	outcome, err := kind.Store(context.Background(), domain.Source{Authority: 0.9},
		ingest.RawItem{Key: "urn:1", Author: "Jane Doe", Text: "off topic"}, domain.NotRelevant())
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if outcome != ingest.StoredIrrelevant {
		t.Fatalf("outcome = %v, want StoredIrrelevant", outcome)
	}
	if len(store.linkedinPosts) != 1 {
		t.Fatal("irrelevant post must still be persisted")
	}
	if store.linkedinPosts[0].PostScore != 0 {
		t.Fatalf("irrelevant post score = %d, want 0", store.linkedinPosts[0].PostScore)
	}
}

func TestLinkedInStoreRelevanceThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quality   float64
		authority float64
		wantScore int
		want      ingest.Outcome
	}{
		{name: "above threshold", quality: 0.8, authority: 0.5, wantScore: 71, want: ingest.Stored},
		{name: "below threshold", quality: 0.4, authority: 0.2, wantScore: 34, want: ingest.StoredIrrelevant},
		{name: "at threshold", quality: 0.5, authority: 0.5, wantScore: 50, want: ingest.Stored},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeContentStore()
			kind := &LinkedInKind{content: store, logger: discardLogger(), now: time.Now, newID: sequentialIDs()}

			outcome, err := kind.Store(context.Background(), domain.Source{Authority: tt.authority},
				ingest.RawItem{Key: "urn:1"},
				domain.Analysis{Relevant: true, QualityScore: tt.quality, Parsed: true})
			if err != nil {
				t.Fatalf("Store returned error: %v", err)
			}
			if outcome != tt.want {
				t.Fatalf("outcome = %v, want %v", outcome, tt.want)
			}
			if store.linkedinPosts[0].PostScore != tt.wantScore {
				t.Fatalf("score = %d, want %d", store.linkedinPosts[0].PostScore, tt.wantScore)
			}
		})
	}
}

func TestRedditExistsMatchesCrossPostHash(t *testing.T) {
	t.Parallel()

	store := newFakeContentStore()
	store.redditHashes[domain.ContentHash("Same title", "same body")] = true
	kind := &RedditKind{content: store, logger: discardLogger(), newID: sequentialIDs()}

	exists, err := kind.Exists(context.Background(), ingest.RawItem{
		Key:   "/r/other/comments/xyz",
		Title: "Same title",
		Text:  "same body",
	})
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !exists {
		t.Fatal("cross-posted text with a new permalink must count as duplicate")
	}
}

func TestRedditStorePersistsHashAndScore(t *testing.T) {
	t.Parallel()

	published := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	store := newFakeContentStore()
	kind := &RedditKind{content: store, logger: discardLogger(), newID: sequentialIDs()}

	outcome, err := kind.Store(context.Background(), domain.Source{ID: "sub-1", Authority: 0.5},
		ingest.RawItem{Key: "/r/mcp/comments/abc", Title: "t", Text: "b", PublishedAt: &published},
		domain.Analysis{Relevant: true, QualityScore: 0.8, Parsed: true})
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if outcome != ingest.Stored {
		t.Fatalf("outcome = %v, want Stored", outcome)
	}

	got := store.redditPosts[0]
	if got.ContentHash != domain.ContentHash("t", "b") {
		t.Fatalf("content hash mismatch: %q", got.ContentHash)
	}
	if got.PostScore != 0.71 {
		t.Fatalf("post score = %v, want 0.71", got.PostScore)
	}
	if got.PublicationWeek != domain.PublicationWeek(published) {
		t.Fatalf("publication week = %q", got.PublicationWeek)
	}
}
