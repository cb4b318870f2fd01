package index

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedReference is returned when a reference is not a valid <txid>:<vout> outpoint
var ErrMalformedReference = errors.New("malformed reference")

// OutPoint identifies one transaction output
type OutPoint struct {
	TxID string // 64 lowercase hex characters
	Vout uint32
}

// ParseOutPoint parses a "<txid>:<vout>" reference
func ParseOutPoint(s string) (OutPoint, error) {
	txid, vout, ok := strings.Cut(s, ":")
	if !ok {
		return OutPoint{}, fmt.Errorf("%w: %q: missing ':' separator", ErrMalformedReference, s)
	}
	if len(txid) != 64 {
		return OutPoint{}, fmt.Errorf("%w: %q: txid must be 64 hex characters", ErrMalformedReference, s)
	}
	if _, err := hex.DecodeString(txid); err != nil {
		return OutPoint{}, fmt.Errorf("%w: %q: txid is not hex", ErrMalformedReference, s)
	}
	n, err := strconv.ParseUint(vout, 10, 32)
	if err != nil {
		return OutPoint{}, fmt.Errorf("%w: %q: invalid output index", ErrMalformedReference, s)
	}
	return OutPoint{TxID: strings.ToLower(txid), Vout: uint32(n)}, nil
}

func (o OutPoint) String() string {
	return o.TxID + ":" + strconv.FormatUint(uint64(o.Vout), 10)
}

// MarshalText implements encoding.TextMarshaler
func (o OutPoint) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *OutPoint) UnmarshalText(text []byte) error {
	parsed, err := ParseOutPoint(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
