package rarity

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a rarity token is not part of the fixed set
var ErrUnknownKind = errors.New("invalid rarity")

// Kind identifies one block rarity category
type Kind uint8

const (
	Vintage Kind = iota
	Nakamoto
	Block9
	Block9_450
	Block78
	FirstTransaction
	Pizza
	Palindrome
	PerfectPalinception
	UniformPalinception
	PaliblockPalindrome
	Alpha
	Omega
	Block286
	JPEG
	Legacy
	Hitman
	Block666
	Taproot

	numKinds
)

var kindTokens = [numKinds]string{
	Vintage:             "vintage",
	Nakamoto:            "nakamoto",
	Block9:              "block9",
	Block9_450:          "block9_450",
	Block78:             "block78",
	FirstTransaction:    "firsttransaction",
	Pizza:               "pizza",
	Palindrome:          "palindrome",
	PerfectPalinception: "perfect_palinception",
	UniformPalinception: "uniform_palinception",
	PaliblockPalindrome: "paliblock_palindrome",
	Alpha:               "alpha",
	Omega:               "omega",
	Block286:            "block286",
	JPEG:                "jpeg",
	Legacy:              "legacy",
	Hitman:              "hitman",
	Block666:            "block666",
	Taproot:             "taproot",
}

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < numKinds {
		return kindTokens[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a lowercase token back to its kind
func ParseKind(s string) (Kind, error) {
	for i, token := range kindTokens {
		if token == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if k >= numKinds {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindTokens[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
