package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"mcpradar/internal/domain"
)

// InsertLinkedInPost stores one post. Every fetched post is kept, including
// irrelevant ones with post_score 0; a duplicate post id is silently ignored.
func (s *Store) InsertLinkedInPost(ctx context.Context, p domain.LinkedInPost) error {
	builder := sq.Insert("linkedin_posts").
		Columns("id", "profile_id", "post_id", "author", "content", "summary",
			"key_points", "quality_score", "post_score", "published_at", "publication_week").
		Values(p.ID, p.SourceID, p.PostID, p.Author, p.Content, p.Summary,
			p.KeyPoints, p.QualityScore, p.PostScore, p.PublishedAt, p.PublicationWeek).
		Suffix("ON CONFLICT (post_id) DO NOTHING")

	if _, err := s.exec(ctx, builder); err != nil {
		return fmt.Errorf("insert linkedin post %s: %w", p.PostID, err)
	}
	return nil
}

// LinkedInPostExists reports whether a post id is already stored.
func (s *Store) LinkedInPostExists(ctx context.Context, postID string) (bool, error) {
	builder := sq.Select("id").From("linkedin_posts").Where(sq.Eq{"post_id": postID}).Limit(1)

	rows, err := s.exec(ctx, builder)
	if err != nil {
		return false, fmt.Errorf("check linkedin post %s: %w", postID, err)
	}
	return len(rows) > 0, nil
}

// LinkedInPostsByWeek returns the week's posts joined with their profile.
// The stored 0-100 score is normalized back to [0,1] for ranking alongside
// the other kinds.
func (s *Store) LinkedInPostsByWeek(ctx context.Context, week string) ([]domain.RankedItem, error) {
	builder := sq.Select(
		"p.author", "p.summary", "p.key_points", "p.post_score", "p.published_at",
		"l.name AS source_name", "l.address AS source_address", "l.authority").
		From("linkedin_posts p").
		Join("linkedin_profiles l ON l.id = p.profile_id").
		Where(sq.Eq{"p.publication_week": week}).
		OrderBy("p.post_score DESC")

	rows, err := s.exec(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("linkedin posts for %s: %w", week, err)
	}

	return lo.Map(rows, func(row map[string]any, _ int) domain.RankedItem {
		return domain.RankedItem{
			Kind:        domain.KindLinkedIn,
			Title:       rowString(row, "author"),
			URL:         rowString(row, "source_address"),
			Summary:     rowString(row, "summary"),
			KeyPoints:   rowStrings(row, "key_points"),
			Score:       rowFloat(row, "post_score") / 100,
			SourceName:  rowString(row, "source_name"),
			Authority:   rowFloat(row, "authority"),
			PublishedAt: rowTime(row, "published_at"),
		}
	}), nil
}
