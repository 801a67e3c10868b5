package ingest

import (
	"context"
	"fmt"
	"time"

	"mcpradar/internal/domain"
)

// RawItem is one fetched content unit before classification.
type RawItem struct {
	// Key is the natural dedupe key: article URL, post id, or permalink.
	Key string
	// Title is set for articles and Reddit posts, Author for LinkedIn posts.
	Title  string
	Author string
	Text   string
	// PublishedAt is nil when the upstream listing carried no date.
	PublishedAt *time.Time
}

// Outcome reports what the store decided to do with a classified item.
type Outcome int

const (
	// Stored means the item was persisted and counts as relevant.
	Stored Outcome = iota
	// StoredIrrelevant means the item was persisted with a zero score
	// (LinkedIn keeps every post).
	StoredIrrelevant
	// SkippedIrrelevant means the verdict was negative and nothing was stored.
	SkippedIrrelevant
	// SkippedStale means the item was relevant but older than the window.
	SkippedStale
)

// Kind is the capability set one source kind plugs into the generic runner.
// The runner owns pacing, dedupe/min-content gating order, error isolation,
// and counting; a Kind owns everything source-specific.
type Kind interface {
	Name() domain.SourceKind
	ListSources(ctx context.Context) ([]domain.Source, error)
	// FetchItems pulls and extracts all candidate items for one source.
	FetchItems(ctx context.Context, src domain.Source) ([]RawItem, error)
	// MinContentChars is the gate below which an item never reaches the
	// classifier. Zero disables the gate.
	MinContentChars() int
	// Exists reports whether the item is already stored. Kinds that persist
	// through an upsert always return false.
	Exists(ctx context.Context, item RawItem) (bool, error)
	Classify(ctx context.Context, src domain.Source, item RawItem) (domain.Analysis, error)
	Store(ctx context.Context, src domain.Source, item RawItem, analysis domain.Analysis) (Outcome, error)
}

// Registry maps source kinds to their pipeline implementations.
type Registry struct {
	kinds map[domain.SourceKind]Kind
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: map[domain.SourceKind]Kind{}}
}

// Register adds or replaces a kind implementation.
func (r *Registry) Register(k Kind) {
	if r.kinds == nil {
		r.kinds = map[domain.SourceKind]Kind{}
	}
	r.kinds[k.Name()] = k
}

// Resolve returns a kind by name or an error if it is absent.
func (r *Registry) Resolve(kind domain.SourceKind) (Kind, error) {
	if k, ok := r.kinds[kind]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("source kind %s is not registered", kind)
}

// All returns every registered kind in canonical scrape order.
func (r *Registry) All() []Kind {
	var all []Kind
	for _, kind := range domain.Kinds() {
		if k, ok := r.kinds[kind]; ok {
			all = append(all, k)
		}
	}
	return all
}
