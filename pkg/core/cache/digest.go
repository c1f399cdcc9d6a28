package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns a stable cache key for the given parts
func Digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
