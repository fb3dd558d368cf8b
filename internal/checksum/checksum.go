// Package checksum fingerprints note contents so callers can tell whether a
// note changed between two reads.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Changed reports whether before and after differ.
func Changed(before, after []byte) bool {
	return Sum(before) != Sum(after)
}
