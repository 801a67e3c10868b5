package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mcpradar/internal/domain"
	"mcpradar/internal/ingest"
)

const (
	itemDelay   = 400 * time.Millisecond
	sourceDelay = 2 * time.Second
)

// Stats summarizes one batch. Batches report partial success, never
// all-or-nothing: a failing item or source is counted and skipped.
type Stats struct {
	Saved    int
	Relevant int
	Skipped  int
	Errors   int
}

func (s Stats) String() string {
	return fmt.Sprintf("saved=%d relevant=%d skipped=%d errors=%d", s.Saved, s.Relevant, s.Skipped, s.Errors)
}

func (s *Stats) merge(other Stats) {
	s.Saved += other.Saved
	s.Relevant += other.Relevant
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}

// Runner executes the shared fetch → gate → classify → store sequence over
// any registered source kind. Everything is strictly sequential with
// fixed-delay pacing; that is the whole rate-limiting strategy.
type Runner struct {
	registry *ingest.Registry
	logger   *slog.Logger
	pause    func(time.Duration)
}

// NewRunner constructs the orchestration component.
func NewRunner(registry *ingest.Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		logger:   logger,
		pause:    time.Sleep,
	}
}

// ScrapeAll runs every registered kind in canonical order.
func (r *Runner) ScrapeAll(ctx context.Context) (Stats, error) {
	var total Stats
	for _, kind := range r.registry.All() {
		stats, err := r.scrape(ctx, kind)
		total.merge(stats)
		if err != nil {
			// A kind that cannot even list its sources is logged and skipped;
			// the remaining kinds still run.
			r.logger.Error("scrape kind failed", "kind", kind.Name(), "error", err)
			total.Errors++
		}
	}
	return total, nil
}

// ScrapeKind runs a single source kind end to end.
func (r *Runner) ScrapeKind(ctx context.Context, name domain.SourceKind) (Stats, error) {
	kind, err := r.registry.Resolve(name)
	if err != nil {
		return Stats{}, err
	}
	return r.scrape(ctx, kind)
}

func (r *Runner) scrape(ctx context.Context, kind ingest.Kind) (Stats, error) {
	logger := r.logger.With("kind", kind.Name())

	sources, err := kind.ListSources(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list %s sources: %w", kind.Name(), err)
	}

	logger.Info("scrape started", "sources", len(sources))

	var stats Stats
	for i, src := range sources {
		if i > 0 {
			r.pause(sourceDelay)
		}

		items, err := kind.FetchItems(ctx, src)
		if err != nil {
			logger.Warn("source fetch failed, skipping", "source", src.Name, "error", err)
			stats.Errors++
			continue
		}

		for j, item := range items {
			if j > 0 {
				r.pause(itemDelay)
			}
			r.processItem(ctx, kind, src, item, &stats, logger)
		}
	}

	logger.Info("scrape finished", "stats", stats.String())
	return stats, nil
}

// processItem walks one item through the gate → dedupe → classify → store
// sequence. Every failure is logged and counted; nothing aborts the batch.
func (r *Runner) processItem(ctx context.Context, kind ingest.Kind, src domain.Source, item ingest.RawItem, stats *Stats, logger *slog.Logger) {
	if min := kind.MinContentChars(); min > 0 && len(item.Text) < min {
		logger.Debug("item too short, skipping", "source", src.Name, "key", item.Key)
		stats.Skipped++
		return
	}

	exists, err := kind.Exists(ctx, item)
	if err != nil {
		logger.Warn("dedupe check failed, skipping item", "source", src.Name, "key", item.Key, "error", err)
		stats.Errors++
		return
	}
	if exists {
		logger.Debug("duplicate item", "source", src.Name, "key", item.Key)
		stats.Skipped++
		return
	}

	analysis, err := kind.Classify(ctx, src, item)
	if err != nil {
		logger.Warn("classification failed, skipping item", "source", src.Name, "key", item.Key, "error", err)
		stats.Errors++
		return
	}
	if !analysis.Parsed {
		logger.Warn("model reply unparseable, folded into negative verdict", "source", src.Name, "key", item.Key)
	}

	outcome, err := kind.Store(ctx, src, item, analysis)
	if err != nil {
		logger.Warn("store failed, skipping item", "source", src.Name, "key", item.Key, "error", err)
		stats.Errors++
		return
	}

	switch outcome {
	case ingest.Stored:
		stats.Saved++
		stats.Relevant++
	case ingest.StoredIrrelevant:
		stats.Saved++
	case ingest.SkippedIrrelevant, ingest.SkippedStale:
		stats.Skipped++
	}
}
