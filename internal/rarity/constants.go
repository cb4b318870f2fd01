package rarity

import "github.com/ppiankov/satrarity/internal/sat"

const (
	VintageBlockHeight  uint32 = 1000
	Block9BlockHeight   uint32 = 9
	Block78BlockHeight  uint32 = 78
	Block286BlockHeight uint32 = 286
	Block666BlockHeight uint32 = 666
	TaprootBlockHeight  uint32 = 709_632
)

// NakamotoBlockHeights are blocks mined by Satoshi Nakamoto whose coinbase was later spent
var NakamotoBlockHeights = []uint32{
	9, 286, 688, 877, 1760, 2459, 2485, 3479, 5326, 9443, 9925, 10645, 14450, 15625, 15817, 19093,
	23014, 28593, 29097,
}

// JPEGBlockHeights are blocks whose coinbase funded the first known image purchase
var JPEGBlockHeights = []uint32{32412}

var (
	// FirstTransactionRange is the block 9 output sent in the first peer-to-peer transaction
	FirstTransactionRange = Chunk{Start: 45_000_000_000, End: 46_000_000_000}

	// Block9_450Range covers the block 9 sats whose index starts with 450
	Block9_450Range = Chunk{Start: 45_000_000_000, End: 45_100_000_000}
)

// DenominationUnit is the sat count of one whole coin
const DenominationUnit = sat.CoinValue
