package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL. Backends must be safe
// for concurrent use; the extractor layer shares one cache across workers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from the given parts, typically an operation name
// and the document text. Parts are hashed so keys stay bounded and never
// leak contract contents into filenames.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "verilex:v1:" + hex.EncodeToString(hash[:])
}
