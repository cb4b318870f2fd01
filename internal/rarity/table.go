package rarity

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ppiankov/satrarity/internal/sat"
)

var (
	//go:embed data/pizza.txt
	pizzaData []byte

	//go:embed data/legacy.txt
	legacyData []byte

	//go:embed data/hitman.txt
	hitmanData []byte
)

// RangeTable maps a block height to the sorted, disjoint curated intervals issued by that block
type RangeTable map[uint32][]Chunk

// At returns the curated intervals for a height (nil when the block has none)
func (t RangeTable) At(height uint32) []Chunk {
	return t[height]
}

// Len returns the total number of intervals in the table
func (t RangeTable) Len() int {
	n := 0
	for _, chunks := range t {
		n += len(chunks)
	}
	return n
}

type curatedTables struct {
	pizza  RangeTable
	legacy RangeTable
	hitman RangeTable
}

var (
	tablesOnce sync.Once
	tables     curatedTables
)

// loadTables builds every curated table exactly once; concurrent callers block until it is done.
func loadTables() *curatedTables {
	tablesOnce.Do(func() {
		tables = curatedTables{
			pizza:  mustBuildTable("pizza", pizzaData),
			legacy: mustBuildTable("legacy", legacyData),
			hitman: mustBuildTable("hitman", hitmanData),
		}
	})
	return &tables
}

// CuratedTable returns the range table for a curated kind (pizza, legacy, hitman)
func CuratedTable(kind Kind) (RangeTable, bool) {
	t := loadTables()
	switch kind {
	case Pizza:
		return t.pizza, true
	case Legacy:
		return t.legacy, true
	case Hitman:
		return t.hitman, true
	default:
		return nil, false
	}
}

func mustBuildTable(name string, data []byte) RangeTable {
	pairs, err := ParseRanges(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("embedded %s ranges: %v", name, err))
	}
	table, err := BuildTable(pairs)
	if err != nil {
		panic(fmt.Sprintf("embedded %s ranges: %v", name, err))
	}
	return table
}

// BuildTable buckets intervals by the height of the block that issued their first sat.
// Every interval must be non-empty and confined to one block; intervals of one block
// must not overlap.
func BuildTable(pairs []Chunk) (RangeTable, error) {
	table := make(RangeTable)
	for _, c := range pairs {
		if c.Start >= c.End {
			return nil, fmt.Errorf("empty range %s", c)
		}
		height := sat.Sat(c.Start).Height()
		if last := sat.Sat(c.End - 1).Height(); last != height {
			return nil, fmt.Errorf("range %s spans blocks %d and %d", c, height, last)
		}
		table[height] = append(table[height], c)
	}

	for height, chunks := range table {
		sort.Slice(chunks, func(i, j int) bool { return chunks[i].Start < chunks[j].Start })
		for i := 1; i < len(chunks); i++ {
			if chunks[i].Start < chunks[i-1].End {
				return nil, fmt.Errorf("overlapping ranges %s and %s in block %d", chunks[i-1], chunks[i], height)
			}
		}
	}
	return table, nil
}

// ParseRanges reads "start end" pairs, one per line. Blank lines and lines starting with # are skipped.
func ParseRanges(r io.Reader) ([]Chunk, error) {
	var pairs []Chunk
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", line, len(fields))
		}
		start, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: start: %w", line, err)
		}
		end, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: end: %w", line, err)
		}
		pairs = append(pairs, Chunk{Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ranges: %w", err)
	}
	return pairs, nil
}
