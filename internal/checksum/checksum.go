// Package checksum computes content digests used as note ETags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag formats sum as a strong HTTP entity tag.
func ETag(sum string) string {
	return `"` + sum + `"`
}

// MatchETag reports whether an If-Match header value matches sum.
// "*" matches anything; weak tags compare by their opaque value.
func MatchETag(header, sum string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" {
			return true
		}
		tag = strings.TrimPrefix(tag, "W/")
		if strings.Trim(tag, `"`) == sum {
			return true
		}
	}
	return false
}
