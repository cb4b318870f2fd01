package index

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileIndex serves ownership data from a YAML document. It is meant for
// development and offline CLI use.
//
//	sat_index: true
//	outputs:
//	  "<txid>:<vout>": [[start, end], ...]
//	block_hashes:
//	  9: "000000008d9dc510f23c2657fc4f67bea30078cc05a90eb89e84cc475c080805"
type FileIndex struct {
	satIndex    bool
	outputs     map[OutPoint][]SatRange
	blockHashes map[uint32]string
}

type fileDocument struct {
	SatIndex    *bool                  `yaml:"sat_index"`
	Outputs     map[string][][2]uint64 `yaml:"outputs"`
	BlockHashes map[uint32]string      `yaml:"block_hashes"`
}

// LoadFileIndex reads a YAML index file
func LoadFileIndex(path string) (*FileIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}
	idx, err := ParseFileIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

// ParseFileIndex decodes an index document. sat_index defaults to true.
func ParseFileIndex(data []byte) (*FileIndex, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}

	idx := &FileIndex{
		satIndex:    doc.SatIndex == nil || *doc.SatIndex,
		outputs:     make(map[OutPoint][]SatRange, len(doc.Outputs)),
		blockHashes: doc.BlockHashes,
	}
	for ref, pairs := range doc.Outputs {
		op, err := ParseOutPoint(ref)
		if err != nil {
			return nil, err
		}
		ranges := make([]SatRange, len(pairs))
		for i, p := range pairs {
			if p[0] >= p[1] {
				return nil, fmt.Errorf("output %s: empty range [%d, %d)", ref, p[0], p[1])
			}
			ranges[i] = SatRange{Start: p[0], End: p[1]}
		}
		idx.outputs[op] = ranges
	}
	return idx, nil
}

// HasSatIndex implements Index
func (f *FileIndex) HasSatIndex() bool {
	return f.satIndex
}

// List implements Index
func (f *FileIndex) List(ctx context.Context, outpoint OutPoint) ([]SatRange, error) {
	ranges, ok := f.outputs[outpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReference, outpoint)
	}
	return append([]SatRange(nil), ranges...), nil
}

// BlockHash implements Index
func (f *FileIndex) BlockHash(ctx context.Context, height uint32) (*string, error) {
	hash, ok := f.blockHashes[height]
	if !ok {
		return nil, nil
	}
	return &hash, nil
}
