package ports

import (
	"context"
	"net/http"

	"mcpradar/internal/domain"
)

// Fetcher performs an HTTP GET with browser headers and fixed-backoff
// retries. Caller-supplied headers override the defaults.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)
}

// Analyzer pushes raw content to the LLM provider for classification.
// Implementations absorb unparseable replies into a negative verdict and only
// surface transport-level failures as errors.
type Analyzer interface {
	ExtractArticleList(ctx context.Context, pageText string) ([]domain.ArticleCandidate, error)
	AnalyzeArticle(ctx context.Context, title, text string) (domain.Analysis, error)
	AnalyzeLinkedInPost(ctx context.Context, author, text string) (domain.Analysis, error)
	AnalyzeRedditPost(ctx context.Context, title, body string) (domain.Analysis, error)
}

// SQLExecutor runs one SQL statement on the remote database proxy and
// normalizes the response into rows.
type SQLExecutor interface {
	Execute(ctx context.Context, statement string) ([]map[string]any, error)
}

// SourceStore persists tracked publishers per kind.
type SourceStore interface {
	List(ctx context.Context, kind domain.SourceKind) ([]domain.Source, error)
	Seed(ctx context.Context, src domain.Source) error
	SetAuthority(ctx context.Context, kind domain.SourceKind, name string, authority float64) error
}

// ContentStore persists classified content items and serves the weekly views.
type ContentStore interface {
	UpsertArticle(ctx context.Context, a domain.Article) error
	InsertLinkedInPost(ctx context.Context, p domain.LinkedInPost) error
	InsertRedditPost(ctx context.Context, p domain.RedditPost) error
	LinkedInPostExists(ctx context.Context, postID string) (bool, error)
	RedditPostExists(ctx context.Context, permalink, contentHash string) (bool, error)
	ArticlesByWeek(ctx context.Context, week string) ([]domain.RankedItem, error)
	LinkedInPostsByWeek(ctx context.Context, week string) ([]domain.RankedItem, error)
	RedditPostsByWeek(ctx context.Context, week string) ([]domain.RankedItem, error)
}

// ProfileScraper drives the actor-based scraping service for one LinkedIn
// profile: submit a job, poll it, fetch the resulting dataset.
type ProfileScraper interface {
	Posts(ctx context.Context, profileURL string) ([]domain.ProfilePost, error)
}

// CommunityLister reads one page of recent posts from a subreddit's public
// listing endpoint.
type CommunityLister interface {
	RecentPosts(ctx context.Context, subreddit string) ([]domain.CommunityPost, error)
}

// Notifier delivers a rendered digest to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler drives recurring scrape runs.
type Scheduler interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
