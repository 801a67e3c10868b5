package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

const (
	qualityWeight   = 0.7
	authorityWeight = 0.3
)

// Clamp01 bounds a model-assigned value to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Score combines model quality with source authority, 70/30, rounded to two
// decimal places. Stored values and report rendering assume this exact
// precision.
func Score(quality, authority float64) float64 {
	raw := qualityWeight*Clamp01(quality) + authorityWeight*Clamp01(authority)
	return math.Round(raw*100) / 100
}

// Score100 is the same weighting rescaled to the integer 0-100 range used for
// LinkedIn posts.
func Score100(quality, authority float64) int {
	raw := qualityWeight*Clamp01(quality) + authorityWeight*Clamp01(authority)
	return int(math.Round(raw * 100))
}

// PublicationWeek buckets a date into a YYYY-wWW label. All pipelines share
// this one implementation so blog and Reddit items land in the same bucket
// for the same calendar date.
func PublicationWeek(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-w%02d", year, week)
}

// ContentHash digests title plus body so the same text cross-posted under
// different permalinks dedupes to one stored row.
func ContentHash(title, body string) string {
	sum := sha256.Sum256([]byte(title + "\n" + body))
	return hex.EncodeToString(sum[:])
}
