package codec

import (
	"errors"
	"testing"
)

func TestParseLenientInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"5+", 5},
		{"5", 5},
		{"1,000", 1000},
		{" 12 beds ", 12},
		{"3.9", 3}, // fractional part discarded after scrubbing
	}
	for _, c := range cases {
		got, err := ParseLenientInt(c.in)
		if err != nil {
			t.Fatalf("ParseLenientInt(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLenientInt(%q): expected %d, got %d", c.in, c.want, got)
		}
	}
}

func TestParseLenientIntNoDigits(t *testing.T) {
	for _, s := range []string{"", "abc", "£", "+"} {
		if _, err := ParseLenientInt(s); !errors.Is(err, ErrNotAnInteger) {
			t.Fatalf("Expected ErrNotAnInteger for %q, got %v", s, err)
		}
	}
}

func TestParseLenientFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"£1,250.00", 1250.00},
		{"£1,000.50", 1000.50},
		{"$99", 99},
		{"1 200.75", 1200.75},
		{"250000", 250000},
	}
	for _, c := range cases {
		got, err := ParseLenientFloat(c.in)
		if err != nil {
			t.Fatalf("ParseLenientFloat(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLenientFloat(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestParseLenientFloatNoDigits(t *testing.T) {
	for _, s := range []string{"", "£", "free"} {
		if _, err := ParseLenientFloat(s); !errors.Is(err, ErrNotANumber) {
			t.Fatalf("Expected ErrNotANumber for %q, got %v", s, err)
		}
	}
}
