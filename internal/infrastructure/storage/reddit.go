package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"mcpradar/internal/domain"
)

// InsertRedditPost stores one relevant subreddit post.
func (s *Store) InsertRedditPost(ctx context.Context, p domain.RedditPost) error {
	builder := sq.Insert("reddit_posts").
		Columns("id", "subreddit_id", "permalink", "content_hash", "title", "content",
			"summary", "key_points", "quality_score", "post_score", "published_at", "publication_week").
		Values(p.ID, p.SourceID, p.Permalink, p.ContentHash, p.Title, p.Content,
			p.Summary, p.KeyPoints, p.QualityScore, p.PostScore, p.PublishedAt, p.PublicationWeek).
		Suffix("ON CONFLICT (permalink) DO NOTHING")

	if _, err := s.exec(ctx, builder); err != nil {
		return fmt.Errorf("insert reddit post %s: %w", p.Permalink, err)
	}
	return nil
}

// RedditPostExists reports whether the permalink or the title+body digest is
// already stored. The hash check catches the same text cross-posted to a
// different subreddit under a new permalink.
func (s *Store) RedditPostExists(ctx context.Context, permalink, contentHash string) (bool, error) {
	builder := sq.Select("id").From("reddit_posts").
		Where(sq.Or{
			sq.Eq{"permalink": permalink},
			sq.Eq{"content_hash": contentHash},
		}).
		Limit(1)

	rows, err := s.exec(ctx, builder)
	if err != nil {
		return false, fmt.Errorf("check reddit post %s: %w", permalink, err)
	}
	return len(rows) > 0, nil
}

// RedditPostsByWeek returns the week's posts joined with their subreddit.
func (s *Store) RedditPostsByWeek(ctx context.Context, week string) ([]domain.RankedItem, error) {
	builder := sq.Select(
		"p.title", "p.permalink", "p.summary", "p.key_points", "p.post_score", "p.published_at",
		"r.name AS source_name", "r.authority").
		From("reddit_posts p").
		Join("reddit_subreddits r ON r.id = p.subreddit_id").
		Where(sq.Eq{"p.publication_week": week}).
		OrderBy("p.post_score DESC")

	rows, err := s.exec(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("reddit posts for %s: %w", week, err)
	}

	return lo.Map(rows, func(row map[string]any, _ int) domain.RankedItem {
		return domain.RankedItem{
			Kind:        domain.KindReddit,
			Title:       rowString(row, "title"),
			URL:         rowString(row, "permalink"),
			Summary:     rowString(row, "summary"),
			KeyPoints:   rowStrings(row, "key_points"),
			Score:       rowFloat(row, "post_score"),
			SourceName:  rowString(row, "source_name"),
			Authority:   rowFloat(row, "authority"),
			PublishedAt: rowTime(row, "published_at"),
		}
	}), nil
}
