package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisIndex reads ownership data maintained by an external indexer:
//
//	<prefix>:ranges:<txid>:<vout>   "start-end,start-end,..."
//	<prefix>:blockhash:<height>     block hash hex
type RedisIndex struct {
	rdb      redis.UniversalClient
	prefix   string
	satIndex bool
}

// RedisOption configures a RedisIndex
type RedisOption func(*RedisIndex)

// WithRedisPrefix sets the key prefix
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisIndex) { r.prefix = strings.Trim(prefix, ":") }
}

// WithRedisSatIndex marks whether the indexer tracks sat ranges
func WithRedisSatIndex(enabled bool) RedisOption {
	return func(r *RedisIndex) { r.satIndex = enabled }
}

// NewRedisIndex creates an index over an existing client
func NewRedisIndex(rdb redis.UniversalClient, opts ...RedisOption) *RedisIndex {
	r := &RedisIndex{
		rdb:      rdb,
		prefix:   "satrarity",
		satIndex: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks connectivity
func (r *RedisIndex) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// HasSatIndex implements Index
func (r *RedisIndex) HasSatIndex() bool {
	return r.satIndex
}

// List implements Index
func (r *RedisIndex) List(ctx context.Context, outpoint OutPoint) ([]SatRange, error) {
	val, err := r.rdb.Get(ctx, r.rangesKey(outpoint)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReference, outpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get ranges %s: %w", outpoint, err)
	}
	ranges, err := DecodeRanges(val)
	if err != nil {
		return nil, fmt.Errorf("output %s: %w", outpoint, err)
	}
	return ranges, nil
}

// BlockHash implements Index
func (r *RedisIndex) BlockHash(ctx context.Context, height uint32) (*string, error) {
	val, err := r.rdb.Get(ctx, r.blockHashKey(height)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get block hash %d: %w", height, err)
	}
	return &val, nil
}

// Store writes the ranges of an output. Used by loaders and tests.
func (r *RedisIndex) Store(ctx context.Context, outpoint OutPoint, ranges []SatRange) error {
	return r.rdb.Set(ctx, r.rangesKey(outpoint), EncodeRanges(ranges), 0).Err()
}

// StoreBlockHash writes the hash of a block
func (r *RedisIndex) StoreBlockHash(ctx context.Context, height uint32, hash string) error {
	return r.rdb.Set(ctx, r.blockHashKey(height), hash, 0).Err()
}

func (r *RedisIndex) rangesKey(outpoint OutPoint) string {
	return r.prefix + ":ranges:" + outpoint.String()
}

func (r *RedisIndex) blockHashKey(height uint32) string {
	return r.prefix + ":blockhash:" + strconv.FormatUint(uint64(height), 10)
}

// EncodeRanges renders ranges in the "start-end,start-end" value format
func EncodeRanges(ranges []SatRange) string {
	var b strings.Builder
	for i, rng := range ranges {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(rng.Start, 10))
		b.WriteByte('-')
		b.WriteString(strconv.FormatUint(rng.End, 10))
	}
	return b.String()
}

// DecodeRanges parses the "start-end,start-end" value format
func DecodeRanges(s string) ([]SatRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []SatRange{}, nil
	}

	parts := strings.Split(s, ",")
	ranges := make([]SatRange, 0, len(parts))
	for _, part := range parts {
		lo, hi, ok := strings.Cut(strings.TrimSpace(part), "-")
		if !ok {
			return nil, fmt.Errorf("bad range %q", part)
		}
		start, err := strconv.ParseUint(lo, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad range start %q: %w", part, err)
		}
		end, err := strconv.ParseUint(hi, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad range end %q: %w", part, err)
		}
		if start >= end {
			return nil, fmt.Errorf("empty range %q", part)
		}
		ranges = append(ranges, SatRange{Start: start, End: end})
	}
	return ranges, nil
}
