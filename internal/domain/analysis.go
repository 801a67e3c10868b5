package domain

import "time"

// Analysis is the normalized classifier verdict for one content item.
//
// Parsed is false when the model reply could not be decoded. The pipelines
// treat an unparseable reply exactly like a negative verdict; only logs keep
// the distinction.
type Analysis struct {
	Relevant        bool
	Summary         string
	KeyPoints       []string
	QualityScore    float64
	RelevanceReason string
	Parsed          bool
}

// NotRelevant is the fallback verdict used when the model reply cannot be
// understood.
func NotRelevant() Analysis {
	return Analysis{KeyPoints: []string{}}
}

// ArticleCandidate is one entry from the model-extracted article list of a
// blog homepage. PublishedAt is nil when the page did not carry a date.
type ArticleCandidate struct {
	Title       string
	URL         string
	PublishedAt *time.Time
}
