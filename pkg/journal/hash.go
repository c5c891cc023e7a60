package journal

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaxHashLength is the maximum number of bytes hashed from the source text.
// Hashing at most 1MB keeps pathological inputs off the request path while
// staying collision-resistant for correlation.
const MaxHashLength = 1 << 20

// HashText returns the hex-encoded SHA-256 of text, hashing at most
// MaxHashLength bytes. Returns an empty string for empty text.
func HashText(text string) string {
	if text == "" {
		return ""
	}
	if len(text) > MaxHashLength {
		text = text[:MaxHashLength]
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
