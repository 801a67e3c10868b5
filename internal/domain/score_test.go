package domain

import (
	"testing"
	"time"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quality   float64
		authority float64
		want      float64
	}{
		{name: "documented vector", quality: 0.8, authority: 0.5, want: 0.71},
		{name: "both max", quality: 1, authority: 1, want: 1},
		{name: "both zero", quality: 0, authority: 0, want: 0},
		{name: "quality above range clamps", quality: 1.4, authority: 0.5, want: 0.85},
		{name: "authority below range clamps", quality: 0.5, authority: -2, want: 0.35},
		{name: "rounds to two decimals", quality: 0.333, authority: 0.333, want: 0.33},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.quality, tt.authority); got != tt.want {
				t.Fatalf("Score(%v, %v) = %v, want %v", tt.quality, tt.authority, got, tt.want)
			}
		})
	}
}

func TestScore100(t *testing.T) {
	t.Parallel()

	if got := Score100(0.8, 0.5); got != 71 {
		t.Fatalf("Score100(0.8, 0.5) = %d, want 71", got)
	}
	if got := Score100(1.4, 2); got != 100 {
		t.Fatalf("Score100 with out-of-range inputs = %d, want 100", got)
	}
	if got := Score100(0, 0); got != 0 {
		t.Fatalf("Score100(0, 0) = %d, want 0", got)
	}
}

func TestPublicationWeek(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, time.January, 5, 10, 30, 0, 0, time.UTC)
	if got := PublicationWeek(monday); got != "2026-w02" {
		t.Fatalf("PublicationWeek(2026-01-05) = %s, want 2026-w02", got)
	}

	// Stable across repeated calls.
	if PublicationWeek(monday) != PublicationWeek(monday) {
		t.Fatal("PublicationWeek is not deterministic")
	}

	// New Year's Day 2026 is a Thursday, still ISO week 1.
	newYear := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := PublicationWeek(newYear); got != "2026-w01" {
		t.Fatalf("PublicationWeek(2026-01-01) = %s, want 2026-w01", got)
	}

	// The same calendar day buckets identically regardless of zone offset.
	offset := time.Date(2026, time.January, 5, 23, 0, 0, 0, time.FixedZone("plus2", 2*3600))
	if got := PublicationWeek(offset); got != PublicationWeek(offset.UTC()) {
		t.Fatalf("PublicationWeek differs between zone renderings: %s", got)
	}
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := ContentHash("MCP servers in production", "we run twelve of them")
	b := ContentHash("MCP servers in production", "we run twelve of them")
	if a != b {
		t.Fatal("identical title+body must hash identically")
	}

	c := ContentHash("MCP servers in production", "we run thirteen of them")
	if a == c {
		t.Fatal("different body must change the hash")
	}

	// Title/body boundary matters: moving a word across it changes the hash.
	if ContentHash("ab", "c") == ContentHash("a", "bc") {
		t.Fatal("hash must separate title from body")
	}
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	if got := Clamp01(1.4); got != 1.0 {
		t.Fatalf("Clamp01(1.4) = %v, want 1.0", got)
	}
	if got := Clamp01(-0.1); got != 0 {
		t.Fatalf("Clamp01(-0.1) = %v, want 0", got)
	}
	if got := Clamp01(0.42); got != 0.42 {
		t.Fatalf("Clamp01(0.42) = %v, want 0.42", got)
	}
}
