// Package codec translates typed values to and from the string-only
// representation required by the field-encryption layer. Every repository
// funnels non-string columns through these functions so a single set of
// round-trip tests certifies correctness for all callers.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Decode/encode failures. Always fatal to the operation in progress; callers
// wrap them with the offending field name and never substitute a default.
var (
	ErrInvalidDate   = errors.New("invalid_date")
	ErrNotAnInteger  = errors.New("not_an_integer")
	ErrNotANumber    = errors.New("not_a_number")
	ErrMalformedJSON = errors.New("malformed_json")
	ErrNotAnArray    = errors.New("not_an_array")
)

// EncodeDate renders a timestamp as RFC 3339 with nanoseconds, UTC.
func EncodeDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// DecodeDate parses a string produced by EncodeDate.
func DecodeDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.UTC(), nil
}

func EncodeInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func DecodeInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotAnInteger, s)
	}
	return v, nil
}

// EncodeIntFromFloat accepts a float only if it carries an integral value,
// matching callers that receive numeric form input as float64.
func EncodeIntFromFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return "", fmt.Errorf("%w: %v", ErrNotAnInteger, v)
	}
	// Integral values beyond int64 would saturate in the conversion. The
	// upper bound is exclusive: 1<<63 is exactly representable as a float,
	// math.MaxInt64 is not.
	if v < -(1 << 63) || v >= 1<<63 {
		return "", fmt.Errorf("%w: %v overflows int64", ErrNotAnInteger, v)
	}
	return strconv.FormatInt(int64(v), 10), nil
}

// EncodeFloat rejects NaN and infinities; they have no storable text form.
func EncodeFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %v", ErrNotANumber, v)
	}
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

func DecodeFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	// EncodeFloat never writes NaN or infinities, so reading one back means
	// the stored value is corrupt.
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return v, nil
}

// EncodeJSON serializes an arbitrary record (checklists, consideration flags).
func EncodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return string(b), nil
}

// DecodeJSON parses into a generic map. Non-object payloads are rejected by
// json.Unmarshal itself.
func DecodeJSON(s string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return out, nil
}

// EncodeStringList serializes a list of strings, dropping any element that is
// not a string when given mixed input.
func EncodeStringList(items []any) (string, error) {
	strs := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			strs = append(strs, s)
		}
	}
	b, err := json.Marshal(strs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return string(b), nil
}

// EncodeStrings is the common-case variant for already-typed input.
func EncodeStrings(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return string(b), nil
}

// DecodeStringList rejects any payload that is not a JSON array of strings.
func DecodeStringList(s string) ([]string, error) {
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnArray, err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotAnArray, s)
	}
	out := make([]string, 0, len(arr))
	for _, it := range arr {
		str, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %v", ErrNotAnArray, it)
		}
		out = append(out, str)
	}
	return out, nil
}

// -----------------------------------------------------------------
// Nullable variants: nil and the empty string pass through unchanged
// so optional columns never trip the strict parsers.
// -----------------------------------------------------------------

func EncodeNullableInt(v *int64) string {
	if v == nil {
		return ""
	}
	return EncodeInt(*v)
}

func DecodeNullableInt(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := DecodeInt(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func EncodeNullableFloat(v *float64) (string, error) {
	if v == nil {
		return "", nil
	}
	return EncodeFloat(*v)
}

func DecodeNullableFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := DecodeFloat(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func EncodeNullableDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return EncodeDate(*t)
}

func DecodeNullableDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := DecodeDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
