// internal/search/params.go
// Package search implements the parameter grid and the strategies that
// explore it: exhaustive grid search and sampling-without-replacement
// random search.
package search

import (
	"fmt"
	"strings"
)

// ParameterSet is one configuration: a runtime block size paired with a
// compile-time optimization level.
type ParameterSet struct {
	BlockSize string `json:"blocksize" yaml:"blocksize"`
	OptLevel  string `json:"optlevel" yaml:"optlevel"`
}

// Key returns the canonical "blocksize,optlevel" form used in result tables.
func (p ParameterSet) Key() string {
	return p.BlockSize + "," + p.OptLevel
}

func (p ParameterSet) String() string { return p.Key() }

// Combination is a ParameterSet together with its position in grid order.
type Combination struct {
	Params  ParameterSet
	Ordinal int
}

// Grid is the cross product of block sizes and optimization levels.
type Grid struct {
	blockSizes []string
	optLevels  []string
}

// NewGrid validates both axes and returns the grid. Tokens are trimmed;
// empty axes and duplicate tokens are rejected.
func NewGrid(blockSizes, optLevels []string) (*Grid, error) {
	blk, err := cleanAxis("blk", blockSizes)
	if err != nil {
		return nil, err
	}
	opt, err := cleanAxis("opt", optLevels)
	if err != nil {
		return nil, err
	}
	return &Grid{blockSizes: blk, optLevels: opt}, nil
}

func cleanAxis(field string, tokens []string) ([]string, error) {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			return nil, &ConfigurationError{Field: field, Value: tok, Reason: "duplicate token"}
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	if len(out) == 0 {
		return nil, &ConfigurationError{Field: field, Value: strings.Join(tokens, ","), Reason: "at least one token is required"}
	}
	return out, nil
}

// BlockSizes returns a copy of the block-size axis.
func (g *Grid) BlockSizes() []string { return append([]string(nil), g.blockSizes...) }

// OptLevels returns a copy of the optimization-level axis.
func (g *Grid) OptLevels() []string { return append([]string(nil), g.optLevels...) }

// Size is the number of combinations in the grid.
func (g *Grid) Size() int { return len(g.blockSizes) * len(g.optLevels) }

// Combinations enumerates the grid block-size major: the outer loop walks
// block sizes, the inner loop optimization levels.
func (g *Grid) Combinations() []Combination {
	out := make([]Combination, 0, g.Size())
	for _, blk := range g.blockSizes {
		for _, opt := range g.optLevels {
			out = append(out, Combination{
				Params:  ParameterSet{BlockSize: blk, OptLevel: opt},
				Ordinal: len(out),
			})
		}
	}
	return out
}

func (g *Grid) String() string {
	return fmt.Sprintf("blk=[%s] x opt=[%s] (%d combinations)",
		strings.Join(g.blockSizes, ","), strings.Join(g.optLevels, ","), g.Size())
}
