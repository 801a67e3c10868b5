package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"mcpradar/internal/domain"
	"mcpradar/internal/ingest"
)

// fakeKind scripts one kind end to end and records classifier traffic.
type fakeKind struct {
	name       domain.SourceKind
	sources    []domain.Source
	items      map[string][]ingest.RawItem
	minContent int
	existing   map[string]bool
	listErr    error
	fetchErr   map[string]error
	classified []string
	analysis   domain.Analysis
	outcome    ingest.Outcome
	storeErr   error
}

var _ ingest.Kind = (*fakeKind)(nil)

func (f *fakeKind) Name() domain.SourceKind { return f.name }

func (f *fakeKind) ListSources(context.Context) ([]domain.Source, error) {
	return f.sources, f.listErr
}

func (f *fakeKind) FetchItems(_ context.Context, src domain.Source) ([]ingest.RawItem, error) {
	if err := f.fetchErr[src.Name]; err != nil {
		return nil, err
	}
	return f.items[src.Name], nil
}

func (f *fakeKind) MinContentChars() int { return f.minContent }

func (f *fakeKind) Exists(_ context.Context, item ingest.RawItem) (bool, error) {
	return f.existing[item.Key], nil
}

func (f *fakeKind) Classify(_ context.Context, _ domain.Source, item ingest.RawItem) (domain.Analysis, error) {
	f.classified = append(f.classified, item.Key)
	return f.analysis, nil
}

func (f *fakeKind) Store(context.Context, domain.Source, ingest.RawItem, domain.Analysis) (ingest.Outcome, error) {
	return f.outcome, f.storeErr
}

func newTestRunner(kinds ...ingest.Kind) *Runner {
	registry := ingest.NewRegistry()
	for _, k := range kinds {
		registry.Register(k)
	}
	r := NewRunner(registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.pause = func(time.Duration) {}
	return r
}

func relevantAnalysis() domain.Analysis {
	return domain.Analysis{Relevant: true, QualityScore: 0.8, Parsed: true, KeyPoints: []string{}}
}

func TestScrapeKindCounts(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		name:    domain.KindBlogs,
		sources: []domain.Source{{Name: "A"}},
		items: map[string][]ingest.RawItem{
			"A": {
				{Key: "u1", Text: "long enough text"},
				{Key: "u2", Text: "long enough text"},
			},
		},
		analysis: relevantAnalysis(),
		outcome:  ingest.Stored,
	}

	stats, err := newTestRunner(kind).ScrapeKind(context.Background(), domain.KindBlogs)
	if err != nil {
		t.Fatalf("ScrapeKind returned error: %v", err)
	}
	want := Stats{Saved: 2, Relevant: 2}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestShortItemsNeverReachClassifier(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		name:       domain.KindBlogs,
		sources:    []domain.Source{{Name: "A"}},
		minContent: 200,
		items: map[string][]ingest.RawItem{
			"A": {{Key: "u1", Text: "too short"}},
		},
		analysis: relevantAnalysis(),
	}

	stats, err := newTestRunner(kind).ScrapeKind(context.Background(), domain.KindBlogs)
	if err != nil {
		t.Fatalf("ScrapeKind returned error: %v", err)
	}
	if len(kind.classified) != 0 {
		t.Fatalf("short item must not be classified, got calls for %v", kind.classified)
	}
	if stats.Skipped != 1 {
		t.Fatalf("expected one skip, got %+v", stats)
	}
}

func TestDuplicatesSkipClassification(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		name:     domain.KindReddit,
		sources:  []domain.Source{{Name: "mcp"}},
		existing: map[string]bool{"p1": true},
		items: map[string][]ingest.RawItem{
			"mcp": {
				{Key: "p1", Text: "seen before"},
				{Key: "p2", Text: "brand new"},
			},
		},
		analysis: relevantAnalysis(),
		outcome:  ingest.Stored,
	}

	stats, err := newTestRunner(kind).ScrapeKind(context.Background(), domain.KindReddit)
	if err != nil {
		t.Fatalf("ScrapeKind returned error: %v", err)
	}
	if len(kind.classified) != 1 || kind.classified[0] != "p2" {
		t.Fatalf("only the new item must be classified, got %v", kind.classified)
	}
	want := Stats{Saved: 1, Relevant: 1, Skipped: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestSourceFailureIsIsolated(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		name: domain.KindBlogs,
		sources: []domain.Source{
			{Name: "broken"},
			{Name: "healthy"},
		},
		fetchErr: map[string]error{"broken": errors.New("boom")},
		items: map[string][]ingest.RawItem{
			"healthy": {{Key: "u1", Text: "long enough text"}},
		},
		analysis: relevantAnalysis(),
		outcome:  ingest.Stored,
	}

	stats, err := newTestRunner(kind).ScrapeKind(context.Background(), domain.KindBlogs)
	if err != nil {
		t.Fatalf("a failing source must not fail the batch: %v", err)
	}
	want := Stats{Saved: 1, Relevant: 1, Errors: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestStoreFailureCountsError(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		name:    domain.KindBlogs,
		sources: []domain.Source{{Name: "A"}},
		items: map[string][]ingest.RawItem{
			"A": {{Key: "u1", Text: "long enough text"}},
		},
		analysis: relevantAnalysis(),
		storeErr: errors.New("proxy down"),
	}

	stats, err := newTestRunner(kind).ScrapeKind(context.Background(), domain.KindBlogs)
	if err != nil {
		t.Fatalf("ScrapeKind returned error: %v", err)
	}
	if stats.Errors != 1 || stats.Saved != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestOutcomeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome ingest.Outcome
		want    Stats
	}{
		{name: "stored", outcome: ingest.Stored, want: Stats{Saved: 1, Relevant: 1}},
		{name: "stored irrelevant", outcome: ingest.StoredIrrelevant, want: Stats{Saved: 1}},
		{name: "skipped irrelevant", outcome: ingest.SkippedIrrelevant, want: Stats{Skipped: 1}},
		{name: "skipped stale", outcome: ingest.SkippedStale, want: Stats{Skipped: 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind := &fakeKind{
				name:    domain.KindBlogs,
				sources: []domain.Source{{Name: "A"}},
				items: map[string][]ingest.RawItem{
					"A": {{Key: "u1", Text: "long enough text"}},
				},
				analysis: relevantAnalysis(),
				outcome:  tt.outcome,
			}

			stats, err := newTestRunner(kind).ScrapeKind(context.Background(), domain.KindBlogs)
			if err != nil {
				t.Fatalf("ScrapeKind returned error: %v", err)
			}
			if stats != tt.want {
				t.Fatalf("stats = %+v, want %+v", stats, tt.want)
			}
		})
	}
}

func TestScrapeAllContinuesPastBrokenKind(t *testing.T) {
	t.Parallel()

	broken := &fakeKind{
		name:    domain.KindBlogs,
		listErr: errors.New("proxy down"),
	}
	healthy := &fakeKind{
		name:    domain.KindReddit,
		sources: []domain.Source{{Name: "mcp"}},
		items: map[string][]ingest.RawItem{
			"mcp": {{Key: "p1", Text: "post body"}},
		},
		analysis: relevantAnalysis(),
		outcome:  ingest.Stored,
	}

	stats, err := newTestRunner(broken, healthy).ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll returned error: %v", err)
	}
	want := Stats{Saved: 1, Relevant: 1, Errors: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestScrapeKindUnknown(t *testing.T) {
	t.Parallel()

	if _, err := newTestRunner().ScrapeKind(context.Background(), domain.KindBlogs); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}
