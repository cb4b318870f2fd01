package rarity

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Chunk is a half-open interval [Start, End) of sat indices.
// On the wire it is a two element array.
type Chunk struct {
	Start uint64
	End   uint64
}

// Len returns the number of sats in the chunk
func (c Chunk) Len() uint64 {
	if c.End <= c.Start {
		return 0
	}
	return c.End - c.Start
}

// Contains reports whether n lies inside the chunk
func (c Chunk) Contains(n uint64) bool {
	return n >= c.Start && n < c.End
}

func (c Chunk) String() string {
	return fmt.Sprintf("[%d, %d)", c.Start, c.End)
}

// MarshalJSON encodes the chunk as [start, end]
func (c Chunk) MarshalJSON() ([]byte, error) {
	return codec.Marshal([2]uint64{c.Start, c.End})
}

// UnmarshalJSON decodes a [start, end] pair
func (c *Chunk) UnmarshalJSON(data []byte) error {
	var pair [2]uint64
	if err := codec.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode chunk: %w", err)
	}
	c.Start, c.End = pair[0], pair[1]
	return nil
}

// Intersect clips the query range against a sorted, disjoint list of curated
// intervals. The output keeps the curated order and never contains empty chunks.
func Intersect(query Chunk, curated []Chunk) []Chunk {
	var chunks []Chunk
	for _, r := range curated {
		if query.Start >= r.End || query.End <= r.Start {
			continue
		}
		chunks = append(chunks, Chunk{
			Start: max(r.Start, query.Start),
			End:   min(r.End, query.End),
		})
	}
	return chunks
}

// unitChunks turns single sat matches into one-sat chunks
func unitChunks(sats []uint64) []Chunk {
	if len(sats) == 0 {
		return nil
	}
	chunks := make([]Chunk, len(sats))
	for i, n := range sats {
		chunks[i] = Chunk{Start: n, End: n + 1}
	}
	return chunks
}
