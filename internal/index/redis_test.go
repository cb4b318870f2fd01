package index

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRanges(t *testing.T) {
	ranges := []SatRange{{0, 5_000_000_000}, {45_000_000_000, 46_000_000_000}}
	encoded := EncodeRanges(ranges)
	assert.Equal(t, "0-5000000000,45000000000-46000000000", encoded)

	decoded, err := DecodeRanges(encoded)
	require.NoError(t, err)
	assert.Equal(t, ranges, decoded)

	decoded, err = DecodeRanges(" 1-2 , 3-4 ")
	require.NoError(t, err)
	assert.Equal(t, []SatRange{{1, 2}, {3, 4}}, decoded)

	decoded, err = DecodeRanges("")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeRanges_Invalid(t *testing.T) {
	for _, s := range []string{"1", "a-2", "1-b", "5-5", "1-2,,3-4"} {
		_, err := DecodeRanges(s)
		assert.Error(t, err, "value %q", s)
	}
}

func TestRedisIndex_Keys(t *testing.T) {
	r := NewRedisIndex(nil, WithRedisPrefix(":ord:"), WithRedisSatIndex(false))
	op := OutPoint{TxID: genesisTx, Vout: 7}

	assert.Equal(t, "ord:ranges:"+genesisTx+":7", r.rangesKey(op))
	assert.Equal(t, "ord:blockhash:9", r.blockHashKey(9))
	assert.False(t, r.HasSatIndex())
}

// TestRedisIndex_Live runs against a real server when SATRARITY_TEST_REDIS_ADDR is set
func TestRedisIndex_Live(t *testing.T) {
	addr := os.Getenv("SATRARITY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SATRARITY_TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	prefix := "satrarity-test-" + t.Name()
	r := NewRedisIndex(rdb, WithRedisPrefix(prefix))
	require.NoError(t, r.Ping(ctx))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	})

	op := OutPoint{TxID: genesisTx, Vout: 0}
	_, err := r.List(ctx, op)
	assert.True(t, errors.Is(err, ErrUnknownReference))

	require.NoError(t, r.Store(ctx, op, []SatRange{{0, 5_000_000_000}}))
	ranges, err := r.List(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, []SatRange{{0, 5_000_000_000}}, ranges)

	hash, err := r.BlockHash(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, hash)

	require.NoError(t, r.StoreBlockHash(ctx, 0, "abc"))
	hash, err = r.BlockHash(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, hash)
	assert.Equal(t, "abc", *hash)
}
