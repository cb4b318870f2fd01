package rarity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ppiankov/satrarity/internal/sat"
)

// ErrInvalidRange is returned for empty ranges and ranges spanning more than one block
var ErrInvalidRange = errors.New("invalid sat range")

// Report is the ordered list of kinds (with their chunks) matching one sat range.
// Kinds with no chunks are left out.
type Report []Entry

// Kinds lists the kinds present in the report, in report order
func (r Report) Kinds() []Kind {
	kinds := make([]Kind, len(r))
	for i, e := range r {
		kinds[i] = e.Kind
	}
	return kinds
}

// Lookup returns the chunks reported for a kind
func (r Report) Lookup(kind Kind) ([]Chunk, bool) {
	for _, e := range r {
		if e.Kind == kind {
			return e.Chunks, true
		}
	}
	return nil, false
}

// DefaultOrder is the evaluation (and report) order. Taproot is not evaluated unless
// enabled with WithTaproot.
var DefaultOrder = []Kind{
	Vintage,
	Nakamoto,
	Block9,
	Block78,
	FirstTransaction,
	Pizza,
	Palindrome,
	Alpha,
	Omega,
	Block286,
	JPEG,
	Legacy,
	Hitman,
	Block666,
}

// Classifier evaluates a fixed, ordered set of kinds. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	order []Kind
}

// Option configures a Classifier
type Option func(*Classifier)

// WithTaproot appends the taproot kind to the evaluation order
func WithTaproot(enabled bool) Option {
	return func(c *Classifier) {
		if enabled && !slices.Contains(c.order, Taproot) {
			c.order = append(c.order, Taproot)
		}
	}
}

// NewClassifier creates a classifier using DefaultOrder plus any options
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{order: append([]Kind(nil), DefaultOrder...)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Order returns a copy of the evaluation order
func (c *Classifier) Order() []Kind {
	return append([]Kind(nil), c.order...)
}

var defaultClassifier = NewClassifier()

// Classify builds the report for [start, end) with the default classifier
func Classify(start, end uint64) (Report, error) {
	return defaultClassifier.Classify(start, end)
}

// Classify builds the report for the half-open range [start, end). The range must be
// non-empty and lie inside a single block.
func (c *Classifier) Classify(start, end uint64) (Report, error) {
	q, err := newQuery(start, end)
	if err != nil {
		return nil, err
	}

	report := Report{}
	for _, kind := range c.order {
		for _, e := range evaluate(kind, q) {
			if len(e.Chunks) > 0 {
				report = append(report, e)
			}
		}
	}
	return report, nil
}

// BlockHeight returns the height every sat of a valid range belongs to
func BlockHeight(start uint64) uint32 {
	return sat.Sat(start).Height()
}

func newQuery(start, end uint64) (query, error) {
	if start >= end {
		return query{}, fmt.Errorf("%w: start %d >= end %d", ErrInvalidRange, start, end)
	}
	// third invalid cause besides empty and cross-block ranges: sats past the supply
	if !sat.Sat(end - 1).IsValid() {
		return query{}, fmt.Errorf("%w: end %d exceeds supply %d", ErrInvalidRange, end, sat.Supply)
	}
	height := sat.Sat(start).Height()
	if last := sat.Sat(end - 1).Height(); last != height {
		return query{}, fmt.Errorf("%w: start %d and end %d are in different blocks", ErrInvalidRange, start, end)
	}
	return query{Chunk: Chunk{Start: start, End: end}, height: height}, nil
}
