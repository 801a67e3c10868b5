package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"mcpradar/internal/domain"
)

// UpsertArticle inserts an article keyed by its canonical URL; re-ingesting
// the same URL overwrites the analysis fields with the newer run's values.
func (s *Store) UpsertArticle(ctx context.Context, a domain.Article) error {
	builder := sq.Insert("articles").
		Columns("id", "blog_id", "url", "title", "summary", "key_points",
			"quality_score", "post_score", "published_at", "publication_week").
		Values(a.ID, a.SourceID, a.URL, a.Title, a.Summary, a.KeyPoints,
			a.QualityScore, a.PostScore, a.PublishedAt, a.PublicationWeek).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			key_points = EXCLUDED.key_points,
			quality_score = EXCLUDED.quality_score,
			post_score = EXCLUDED.post_score,
			published_at = EXCLUDED.published_at,
			publication_week = EXCLUDED.publication_week`)

	if _, err := s.exec(ctx, builder); err != nil {
		return fmt.Errorf("upsert article %s: %w", a.URL, err)
	}
	return nil
}

// ArticlesByWeek returns the week's articles joined with their blog, ordered
// by post score.
func (s *Store) ArticlesByWeek(ctx context.Context, week string) ([]domain.RankedItem, error) {
	builder := sq.Select(
		"a.title", "a.url", "a.summary", "a.key_points", "a.post_score", "a.published_at",
		"b.name AS source_name", "b.authority").
		From("articles a").
		Join("blogs b ON b.id = a.blog_id").
		Where(sq.Eq{"a.publication_week": week}).
		OrderBy("a.post_score DESC")

	rows, err := s.exec(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("articles for %s: %w", week, err)
	}

	return lo.Map(rows, func(row map[string]any, _ int) domain.RankedItem {
		return domain.RankedItem{
			Kind:        domain.KindBlogs,
			Title:       rowString(row, "title"),
			URL:         rowString(row, "url"),
			Summary:     rowString(row, "summary"),
			KeyPoints:   rowStrings(row, "key_points"),
			Score:       rowFloat(row, "post_score"),
			SourceName:  rowString(row, "source_name"),
			Authority:   rowFloat(row, "authority"),
			PublishedAt: rowTime(row, "published_at"),
		}
	}), nil
}
