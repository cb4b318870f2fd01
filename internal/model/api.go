package model

import (
	"github.com/ppiankov/satrarity/internal/rarity"
	"github.com/ppiankov/satrarity/internal/sat"
)

// SatRangesRequest asks for the rarity breakdown of the sats held by each reference.
// Utxos is the older name for References and is accepted when References is empty.
type SatRangesRequest struct {
	References []string `json:"references,omitempty"`
	Utxos      []string `json:"utxos,omitempty"`
}

// Refs returns the references of the request, preferring the current field name
func (r SatRangesRequest) Refs() []string {
	if len(r.References) > 0 {
		return r.References
	}
	return r.Utxos
}

// SatRangesResult is the response to a SatRangesRequest
type SatRangesResult struct {
	Results []ReferenceResult `json:"results"`
}

// ReferenceResult is the breakdown for one reference, ranges in output order
type ReferenceResult struct {
	Reference string        `json:"reference"`
	Ranges    []RangeReport `json:"ranges"`
	NamedSats []NamedSat    `json:"named_sats"`
}

// RangeReport is the rarity report of one owned range
type RangeReport struct {
	Start       uint64        `json:"start"`
	End         uint64        `json:"end"`
	Rarities    rarity.Report `json:"rarities"`
	BlockHeight uint32        `json:"block_height"`
	BlockHash   *string       `json:"block_hash,omitempty"`
}

// NamedSat is a sat above common rarity found inside the owned ranges
type NamedSat struct {
	Offset   uint64      `json:"offset"` // position within the output
	Rarity   sat.Rarity  `json:"rarity"`
	SatIndex uint64      `json:"sat_index"`
	Metadata sat.Details `json:"metadata"`
}

// BlockRaritiesRequest asks for the report of one single-block range
type BlockRaritiesRequest struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}
