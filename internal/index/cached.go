package index

import (
	"context"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ppiankov/satrarity/internal/cache"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// CachedIndex is a read-through cache in front of another Index. Only successful
// lookups are cached; unknown references and missing block hashes always reach
// the wrapped index.
type CachedIndex struct {
	next  Index
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedIndex wraps next with c
func NewCachedIndex(next Index, c cache.Cache, ttl time.Duration) *CachedIndex {
	return &CachedIndex{next: next, cache: c, ttl: ttl}
}

// HasSatIndex implements Index
func (c *CachedIndex) HasSatIndex() bool {
	return c.next.HasSatIndex()
}

// List implements Index
func (c *CachedIndex) List(ctx context.Context, outpoint OutPoint) ([]SatRange, error) {
	key := cache.CacheKey("ranges", outpoint.String())
	if data, ok := c.cache.Get(key); ok {
		var ranges []SatRange
		if err := codec.Unmarshal(data, &ranges); err == nil {
			return ranges, nil
		}
		_ = c.cache.Delete(key)
	}

	ranges, err := c.next.List(ctx, outpoint)
	if err != nil {
		return nil, err
	}
	if data, err := codec.Marshal(ranges); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}
	return ranges, nil
}

// BlockHash implements Index
func (c *CachedIndex) BlockHash(ctx context.Context, height uint32) (*string, error) {
	key := cache.CacheKey("blockhash", strconv.FormatUint(uint64(height), 10))
	if data, ok := c.cache.Get(key); ok {
		hash := string(data)
		return &hash, nil
	}

	hash, err := c.next.BlockHash(ctx, height)
	if err != nil || hash == nil {
		return hash, err
	}
	_ = c.cache.Set(key, []byte(*hash), c.ttl)
	return hash, nil
}
