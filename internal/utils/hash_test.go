package utils

import (
	"testing"
	"time"
)

func TestEqualityHashNormalization(t *testing.T) {
	a := EqualityHash("  Alice@Example.COM ")
	b := EqualityHash("alice@example.com")
	if a != b {
		t.Fatalf("Expected normalized inputs to hash equal, got %q vs %q", a, b)
	}

	c := EqualityHash("bob@example.com")
	if a == c {
		t.Fatal("Expected different inputs to hash differently")
	}
}

func TestDateSortKeyOrdering(t *testing.T) {
	// Spans the 1970 epoch: dates of birth are mostly pre-1970, where raw
	// Unix seconds are negative.
	dates := []time.Time{
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	for i := 1; i < len(dates); i++ {
		prev := DateSortKey(dates[i-1])
		next := DateSortKey(dates[i])

		if len(prev) != 20 || len(next) != 20 {
			t.Fatalf("Expected 20-character sort keys, got %d and %d", len(prev), len(next))
		}
		if !(prev < next) {
			t.Fatalf("Expected lexicographic order to match time order for %v < %v: %q vs %q",
				dates[i-1], dates[i], prev, next)
		}
	}
}
