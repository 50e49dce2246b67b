package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching search responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// QueryKey generates a cache key for a search query with a given result count.
// The count is part of the key so a K change never serves truncated results.
func QueryKey(query string, maxResults int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", maxResults, query)))
	return "claimlens:v1:" + hex.EncodeToString(hash[:])
}
