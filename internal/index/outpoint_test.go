package index

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisTx = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

func TestParseOutPoint(t *testing.T) {
	op, err := ParseOutPoint(genesisTx + ":0")
	require.NoError(t, err)
	assert.Equal(t, OutPoint{TxID: genesisTx, Vout: 0}, op)
	assert.Equal(t, genesisTx+":0", op.String())

	op, err = ParseOutPoint(strings.ToUpper(genesisTx) + ":4294967295")
	require.NoError(t, err)
	assert.Equal(t, genesisTx, op.TxID)
	assert.Equal(t, uint32(4294967295), op.Vout)
}

func TestParseOutPoint_Malformed(t *testing.T) {
	tests := []struct {
		ref string
		msg string
	}{
		{"", "missing ':'"},
		{genesisTx, "missing ':'"},
		{"abc:0", "64 hex"},
		{strings.Repeat("z", 64) + ":0", "not hex"},
		{genesisTx + ":", "output index"},
		{genesisTx + ":-1", "output index"},
		{genesisTx + ":4294967296", "output index"},
		{genesisTx + ":0:1", "output index"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, err := ParseOutPoint(tt.ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedReference))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestOutPointJSON(t *testing.T) {
	data, err := json.Marshal(OutPoint{TxID: genesisTx, Vout: 3})
	require.NoError(t, err)
	assert.Equal(t, `"`+genesisTx+`:3"`, string(data))

	var op OutPoint
	require.NoError(t, json.Unmarshal(data, &op))
	assert.Equal(t, uint32(3), op.Vout)

	err = json.Unmarshal([]byte(`"nope"`), &op)
	assert.True(t, errors.Is(err, ErrMalformedReference))
}

func TestSatRangeJSON(t *testing.T) {
	data, err := json.Marshal([]SatRange{{0, 5_000_000_000}})
	require.NoError(t, err)
	assert.Equal(t, `[[0,5000000000]]`, string(data))

	var back []SatRange
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []SatRange{{0, 5_000_000_000}}, back)
	assert.Equal(t, uint64(5_000_000_000), back[0].Len())

	var viaCodec []SatRange
	require.NoError(t, codec.Unmarshal([]byte(`[[7,9]]`), &viaCodec))
	assert.Equal(t, []SatRange{{7, 9}}, viaCodec)
	assert.Error(t, codec.Unmarshal([]byte(`[["7",9]]`), &viaCodec))
}
