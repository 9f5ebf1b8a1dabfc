package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// EqualityHash computes the SHA-256 digest of a normalized (trimmed,
// lower-cased) value and Base64-URL-encodes it. Stored alongside an
// encrypted column so exact-match lookups work without decrypting.
// One-way only; never used to reconstruct the value.
func EqualityHash(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	hasher := sha256.New()
	hasher.Write([]byte(normalized))
	return base64.URLEncoding.EncodeToString(hasher.Sum(nil))
}

// DateSortKey renders a timestamp as a zero-padded string so an encrypted
// date column remains sortable lexicographically. The Unix seconds are biased
// by 2^63 into the unsigned range first; a raw negative count would put
// pre-1970 dates (most dates of birth) after post-1970 ones.
func DateSortKey(t time.Time) string {
	biased := uint64(t.Unix()) + (1 << 63)
	return fmt.Sprintf("%020d", biased)
}
