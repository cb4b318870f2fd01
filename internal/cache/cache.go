package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte values under string keys
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion is bumped whenever the encoding of cached values changes
const keyVersion = "v1"

// CacheKey builds a versioned key for an id inside a namespace. The id is hashed so
// keys stay filesystem safe for the disk layer.
func CacheKey(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "satrarity:" + keyVersion + ":" + namespace + ":" + hex.EncodeToString(hash[:16])
}
