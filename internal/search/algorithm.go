package search

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm selects a search strategy.
type Algorithm int

const (
	AlgorithmGrid Algorithm = iota + 1
	AlgorithmRandom
)

// ErrPoolExhausted is returned when random search is asked to draw more
// configurations than the grid holds.
var ErrPoolExhausted = errors.New("sampling pool exhausted")

// ConfigurationError reports a request the harness cannot act on: an
// unknown algorithm name, an invalid grid axis or colliding artifact names.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmGrid:
		return "grid"
	case AlgorithmRandom:
		return "random"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// MarshalText lets JSON and YAML encoders write the algorithm by name.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a != AlgorithmGrid && a != AlgorithmRandom {
		return nil, fmt.Errorf("unknown algorithm %d", int(a))
	}
	return []byte(a.String()), nil
}

// ParseAlgorithm maps a CLI token to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "grid":
		return AlgorithmGrid, nil
	case "random":
		return AlgorithmRandom, nil
	default:
		return 0, &ConfigurationError{Field: "alg", Value: name, Reason: `expected "grid" or "random"`}
	}
}

// ParseAlgorithms parses every token, keeping request order and dropping
// repeats. Blank tokens are skipped; an empty result is an error.
func ParseAlgorithms(names []string) ([]Algorithm, error) {
	var out []Algorithm
	seen := map[Algorithm]bool{}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		alg, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if seen[alg] {
			continue
		}
		seen[alg] = true
		out = append(out, alg)
	}
	if len(out) == 0 {
		return nil, &ConfigurationError{Field: "alg", Value: strings.Join(names, ","), Reason: "no search algorithm requested"}
	}
	return out, nil
}
