package domain

import "time"

// Article is a blog post that passed relevance filtering. URL is the natural
// dedupe key; re-ingesting the same URL overwrites summary and scores.
type Article struct {
	ID              string
	SourceID        string
	URL             string
	Title           string
	Summary         string
	KeyPoints       []string
	QualityScore    float64
	PostScore       float64
	PublishedAt     time.Time
	PublicationWeek string
	CreatedAt       time.Time
}

// LinkedInPost is one post scraped from a tracked profile. Unlike articles,
// irrelevant posts are stored too, just with PostScore 0. PostScore uses an
// integer 0-100 scale; 50 and above counts as relevant.
type LinkedInPost struct {
	ID              string
	SourceID        string
	PostID          string
	Author          string
	Content         string
	Summary         string
	KeyPoints       []string
	QualityScore    float64
	PostScore       int
	PublishedAt     time.Time
	PublicationWeek string
	CreatedAt       time.Time
}

// RedditPost is one relevant post from a tracked subreddit. Permalink is the
// primary dedupe key; ContentHash catches the same text cross-posted under a
// different permalink.
type RedditPost struct {
	ID              string
	SourceID        string
	Permalink       string
	ContentHash     string
	Title           string
	Content         string
	Summary         string
	KeyPoints       []string
	QualityScore    float64
	PostScore       float64
	PublishedAt     time.Time
	PublicationWeek string
	CreatedAt       time.Time
}

// ProfilePost is a raw post returned by the profile scraping service, before
// classification.
type ProfilePost struct {
	ID          string
	Author      string
	Text        string
	URL         string
	PublishedAt time.Time
}

// CommunityPost is a raw subreddit post from the public listing endpoint.
type CommunityPost struct {
	ID          string
	Title       string
	Body        string
	Permalink   string
	Subreddit   string
	Author      string
	PublishedAt time.Time
}

// RankedItem is a flattened, score-ordered view over all three content tables
// used by the weekly report. Score is normalized to [0,1] regardless of the
// scale the item was stored with.
type RankedItem struct {
	Kind        SourceKind
	Title       string
	URL         string
	Summary     string
	KeyPoints   []string
	Score       float64
	SourceName  string
	Authority   float64
	PublishedAt time.Time
}
