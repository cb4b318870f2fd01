package rarity

import "slices"

// query is a validated single-block range together with its block height
type query struct {
	Chunk
	height uint32
}

// Entry is one (kind, chunks) pair of a report
type Entry struct {
	Kind   Kind    `json:"kind"`
	Chunks []Chunk `json:"chunks"`
}

// evaluate runs the evaluator registered for kind. Refinement kinds that are only
// produced as a side output of another evaluator (block9_450, the palinception
// variants, paliblock) evaluate to nothing on their own.
func evaluate(kind Kind, q query) []Entry {
	switch kind {
	case Vintage:
		return whenHeight(kind, q, q.height <= VintageBlockHeight)
	case Nakamoto:
		return whenHeight(kind, q, slices.Contains(NakamotoBlockHeights, q.height))
	case Block9:
		return evalBlock9(q)
	case Block78:
		return whenHeight(kind, q, q.height == Block78BlockHeight)
	case Block286:
		return whenHeight(kind, q, q.height == Block286BlockHeight)
	case Block666:
		return whenHeight(kind, q, q.height == Block666BlockHeight)
	case Taproot:
		return whenHeight(kind, q, q.height == TaprootBlockHeight)
	case JPEG:
		return whenHeight(kind, q, slices.Contains(JPEGBlockHeights, q.height))
	case FirstTransaction:
		return withinBlock(kind, q, Block9BlockHeight, FirstTransactionRange)
	case Pizza, Legacy, Hitman:
		return evalCurated(kind, q)
	case Palindrome:
		return palindromeChunks(q.Start, q.End, q.height)
	case Alpha:
		return []Entry{{Kind: Alpha, Chunks: unitChunks(Alphas(q.Start, q.End))}}
	case Omega:
		return []Entry{{Kind: Omega, Chunks: unitChunks(Omegas(q.Start, q.End))}}
	case Block9_450, PerfectPalinception, UniformPalinception, PaliblockPalindrome:
		return nil
	default:
		return nil
	}
}

// whenHeight covers the whole query range when the block predicate holds
func whenHeight(kind Kind, q query, match bool) []Entry {
	if !match {
		return nil
	}
	return []Entry{{Kind: kind, Chunks: []Chunk{q.Chunk}}}
}

// withinBlock matches the part of the query that lies in a fixed sat window of one block
func withinBlock(kind Kind, q query, height uint32, window Chunk) []Entry {
	if q.height != height {
		return nil
	}
	return []Entry{{Kind: kind, Chunks: Intersect(q.Chunk, []Chunk{window})}}
}

func evalBlock9(q query) []Entry {
	if q.height != Block9BlockHeight {
		return nil
	}
	return append(
		[]Entry{{Kind: Block9, Chunks: []Chunk{q.Chunk}}},
		withinBlock(Block9_450, q, Block9BlockHeight, Block9_450Range)...,
	)
}

func evalCurated(kind Kind, q query) []Entry {
	table, ok := CuratedTable(kind)
	if !ok {
		return nil
	}
	return []Entry{{Kind: kind, Chunks: Intersect(q.Chunk, table.At(q.height))}}
}
