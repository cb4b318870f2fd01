package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
outputs:
  "` + genesisTx + `:0": [[0, 5000000000]]
  "` + genesisTx + `:1": [[45000000000, 45000001000], [1425808476860827, 1425808478101389]]
block_hashes:
  0: "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
`

func TestFileIndex(t *testing.T) {
	idx, err := ParseFileIndex([]byte(fixture))
	require.NoError(t, err)
	assert.True(t, idx.HasSatIndex())

	ranges, err := idx.List(context.Background(), OutPoint{TxID: genesisTx, Vout: 1})
	require.NoError(t, err)
	assert.Equal(t, []SatRange{{45_000_000_000, 45_000_001_000}, {1425808476860827, 1425808478101389}}, ranges)

	_, err = idx.List(context.Background(), OutPoint{TxID: genesisTx, Vout: 2})
	assert.True(t, errors.Is(err, ErrUnknownReference))

	hash, err := idx.BlockHash(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, hash)
	assert.Equal(t, "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f", *hash)

	hash, err = idx.BlockHash(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, hash)
}

func TestFileIndex_ListReturnsCopy(t *testing.T) {
	idx, err := ParseFileIndex([]byte(fixture))
	require.NoError(t, err)

	op := OutPoint{TxID: genesisTx, Vout: 0}
	ranges, err := idx.List(context.Background(), op)
	require.NoError(t, err)
	ranges[0].Start = 99

	again, err := idx.List(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), again[0].Start)
}

func TestFileIndex_SatIndexDisabled(t *testing.T) {
	idx, err := ParseFileIndex([]byte("sat_index: false\n"))
	require.NoError(t, err)
	assert.False(t, idx.HasSatIndex())
}

func TestFileIndex_Invalid(t *testing.T) {
	_, err := ParseFileIndex([]byte(`outputs: {"bad:0": [[0, 1]]}`))
	assert.True(t, errors.Is(err, ErrMalformedReference))

	_, err = ParseFileIndex([]byte(`outputs: {"` + genesisTx + `:0": [[5, 5]]}`))
	assert.ErrorContains(t, err, "empty range")

	_, err = ParseFileIndex([]byte("outputs: ["))
	assert.Error(t, err)
}

func TestLoadFileIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	idx, err := LoadFileIndex(path)
	require.NoError(t, err)
	_, err = idx.List(context.Background(), OutPoint{TxID: genesisTx, Vout: 0})
	assert.NoError(t, err)

	_, err = LoadFileIndex(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
