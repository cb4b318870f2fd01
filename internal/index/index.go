package index

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownReference is returned when the index holds no ranges for an outpoint
var ErrUnknownReference = errors.New("unknown reference")

// SatRange is the half-open interval [Start, End) of sats owned by an output
type SatRange struct {
	Start uint64
	End   uint64
}

// MarshalJSON encodes the range as [start, end]
func (r SatRange) MarshalJSON() ([]byte, error) {
	return codec.Marshal([2]uint64{r.Start, r.End})
}

// UnmarshalJSON decodes a [start, end] pair
func (r *SatRange) UnmarshalJSON(data []byte) error {
	var pair [2]uint64
	if err := codec.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("sat range: %w", err)
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// Len is the number of sats in the range
func (r SatRange) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Index answers ownership questions for outpoints
type Index interface {
	// HasSatIndex reports whether sat ranges are tracked at all
	HasSatIndex() bool

	// List returns the sat ranges held by an output, in output order
	List(ctx context.Context, outpoint OutPoint) ([]SatRange, error)

	// BlockHash returns the hash of the block at height, or nil when unknown
	BlockHash(ctx context.Context, height uint32) (*string, error)
}
