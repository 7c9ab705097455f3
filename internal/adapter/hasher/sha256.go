// Package hasher computes the content fingerprints used for chunk
// content-hashes.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the lowercase-hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString is a convenience wrapper over Hash for string input.
func HashString(s string) string {
	return Hash([]byte(s))
}
