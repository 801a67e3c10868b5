package domain

import "time"

// SourceKind distinguishes the three scraping lanes.
type SourceKind string

const (
	KindBlogs    SourceKind = "blogs"
	KindLinkedIn SourceKind = "linkedin"
	KindReddit   SourceKind = "reddit"
)

// Kinds lists every source kind in scrape order.
func Kinds() []SourceKind {
	return []SourceKind{KindBlogs, KindLinkedIn, KindReddit}
}

// ParseKind validates a user-supplied kind name.
func ParseKind(s string) (SourceKind, bool) {
	switch SourceKind(s) {
	case KindBlogs, KindLinkedIn, KindReddit:
		return SourceKind(s), true
	}
	return "", false
}

// SourceType categorizes how a publisher relates to the MCP ecosystem.
type SourceType string

const (
	TypeMCPFirstStartup SourceType = "mcp_first_startup"
	TypeEnterprise      SourceType = "enterprise"
	TypeTrendsetter     SourceType = "trendsetter"
	TypeCommunity       SourceType = "community"
)

// Source is a tracked publisher: a blog, a LinkedIn profile, or a subreddit.
// Address holds the homepage URL, the profile URL, or the subreddit name
// depending on Kind. Authority is a trust weight in [0,1].
type Source struct {
	ID        string
	Kind      SourceKind
	Name      string
	Address   string
	Authority float64
	Type      SourceType
	Active    bool
	CreatedAt time.Time
}
