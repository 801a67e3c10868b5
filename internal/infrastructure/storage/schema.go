package storage

import (
	"context"
	"fmt"
)

// Content rows cascade away with their source; natural keys carry UNIQUE
// constraints so the upsert conflict targets exist.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS blogs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		authority DOUBLE PRECISION NOT NULL DEFAULT 0.5 CHECK (authority >= 0 AND authority <= 1),
		source_type TEXT NOT NULL DEFAULT 'community',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		blog_id TEXT NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		key_points TEXT NOT NULL DEFAULT '[]',
		quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		post_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		published_at TIMESTAMPTZ NOT NULL,
		publication_week TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS linkedin_profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		authority DOUBLE PRECISION NOT NULL DEFAULT 0.5 CHECK (authority >= 0 AND authority <= 1),
		source_type TEXT NOT NULL DEFAULT 'community',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS linkedin_posts (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES linkedin_profiles(id) ON DELETE CASCADE,
		post_id TEXT NOT NULL UNIQUE,
		author TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		key_points TEXT NOT NULL DEFAULT '[]',
		quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		post_score INTEGER NOT NULL DEFAULT 0,
		published_at TIMESTAMPTZ NOT NULL,
		publication_week TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reddit_subreddits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		authority DOUBLE PRECISION NOT NULL DEFAULT 0.5 CHECK (authority >= 0 AND authority <= 1),
		source_type TEXT NOT NULL DEFAULT 'community',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reddit_posts (
		id TEXT PRIMARY KEY,
		subreddit_id TEXT NOT NULL REFERENCES reddit_subreddits(id) ON DELETE CASCADE,
		permalink TEXT NOT NULL UNIQUE,
		content_hash TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		key_points TEXT NOT NULL DEFAULT '[]',
		quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		post_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		published_at TIMESTAMPTZ NOT NULL,
		publication_week TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_week ON articles (publication_week)`,
	`CREATE INDEX IF NOT EXISTS idx_linkedin_posts_week ON linkedin_posts (publication_week)`,
	`CREATE INDEX IF NOT EXISTS idx_reddit_posts_week ON reddit_posts (publication_week)`,
	`CREATE INDEX IF NOT EXISTS idx_reddit_posts_hash ON reddit_posts (content_hash)`,
}

// EnsureSchema creates all tables and indexes if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := s.db.Execute(ctx, statement); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
