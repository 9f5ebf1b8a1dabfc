package codec

import (
	"fmt"
	"strings"
	"unicode"
)

// Lenient parsers for human-entered strings at the UI/API boundary only,
// e.g. "5+" bedrooms or "£1,000.50". They strip currency symbols, thousands
// separators and non-numeric suffixes before delegating to the strict
// decoders. Never applied to values read back from storage.

func scrubNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		case r == ',':
			// thousands separator
		default:
			// currency symbols, suffixes like "+", whitespace
		}
	}
	return b.String()
}

// ParseLenientInt parses strings like "5+" or "1,000" into an integer.
func ParseLenientInt(s string) (int64, error) {
	cleaned := scrubNumeric(s)
	if idx := strings.IndexByte(cleaned, '.'); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("%w: no numeric content in %q", ErrNotAnInteger, s)
	}
	return DecodeInt(cleaned)
}

// ParseLenientFloat parses strings like "£1,250.00" into a float.
func ParseLenientFloat(s string) (float64, error) {
	cleaned := scrubNumeric(s)
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0, fmt.Errorf("%w: no numeric content in %q", ErrNotANumber, s)
	}
	return DecodeFloat(cleaned)
}
