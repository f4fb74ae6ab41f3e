package search

import (
	"encoding/json"
	"math"
	"time"
)

// MeanPrecision is the number of decimal places kept for averaged times.
const MeanPrecision = 4

// Measurement is one configuration's averaged timing.
type Measurement struct {
	Params  ParameterSet `json:"params" yaml:"params"`
	Ordinal int          `json:"ordinal" yaml:"ordinal"`
	Samples []float64    `json:"samples" yaml:"samples"`
	Mean    float64      `json:"mean" yaml:"mean"`
	Min     float64      `json:"min" yaml:"min"`
	Max     float64      `json:"max" yaml:"max"`
}

// Key returns the "blocksize,optlevel" key of the measured configuration.
func (m Measurement) Key() string { return m.Params.Key() }

// Result is what one strategy invocation produced. It is not modified after
// the strategy returns.
type Result struct {
	Algorithm    Algorithm     `json:"algorithm" yaml:"algorithm"`
	Repeat       int           `json:"repeat" yaml:"repeat"`
	Seed         uint64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Measurements []Measurement `json:"measurements" yaml:"measurements"`
	Best         *Measurement  `json:"best,omitempty" yaml:"best,omitempty"`
	Duration     time.Duration `json:"-" yaml:"-"`
}

// resultDoc is the exported form of a Result, with the wall-clock time in
// seconds so JSON and YAML carry the same unit.
type resultDoc struct {
	Algorithm       Algorithm     `json:"algorithm" yaml:"algorithm"`
	Repeat          int           `json:"repeat" yaml:"repeat"`
	Seed            uint64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Measurements    []Measurement `json:"measurements" yaml:"measurements"`
	Best            *Measurement  `json:"best,omitempty" yaml:"best,omitempty"`
	DurationSeconds float64       `json:"durationSeconds" yaml:"durationSeconds"`
}

func (r Result) doc() resultDoc {
	return resultDoc{
		Algorithm:       r.Algorithm,
		Repeat:          r.Repeat,
		Seed:            r.Seed,
		Measurements:    r.Measurements,
		Best:            r.Best,
		DurationSeconds: r.DurationSeconds(),
	}
}

// MarshalJSON encodes the result with its duration in seconds.
func (r Result) MarshalJSON() ([]byte, error) { return json.Marshal(r.doc()) }

// MarshalYAML encodes the result with its duration in seconds.
func (r Result) MarshalYAML() (any, error) { return r.doc(), nil }

// HasBest reports whether the strategy ran to completion and selected a winner.
func (r *Result) HasBest() bool { return r != nil && r.Best != nil }

// Len is the number of measured configurations.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Measurements)
}

// Keys returns result-table keys in measurement order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, r.Len())
	for _, m := range r.Measurements {
		keys = append(keys, m.Key())
	}
	return keys
}

// Table returns the key to mean-time mapping.
func (r *Result) Table() map[string]float64 {
	table := make(map[string]float64, r.Len())
	for _, m := range r.Measurements {
		table[m.Key()] = m.Mean
	}
	return table
}

// Lookup finds the measurement for a "blocksize,optlevel" key.
func (r *Result) Lookup(key string) (Measurement, bool) {
	for _, m := range r.Measurements {
		if m.Key() == key {
			return m, true
		}
	}
	return Measurement{}, false
}

// DurationSeconds is the strategy wall-clock time in seconds, rounded like
// the measured means.
func (r *Result) DurationSeconds() float64 {
	return Round(r.Duration.Seconds(), MeanPrecision)
}

// SelectBest returns the measurement with the lowest mean. Ties go to the
// configuration that comes first in grid order, so the winner does not
// depend on the order in which configurations happened to be measured.
func SelectBest(measurements []Measurement) (Measurement, bool) {
	if len(measurements) == 0 {
		return Measurement{}, false
	}
	best := measurements[0]
	for _, m := range measurements[1:] {
		if m.Mean < best.Mean || (m.Mean == best.Mean && m.Ordinal < best.Ordinal) {
			best = m
		}
	}
	return best, true
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func summarize(c Combination, samples []float64) Measurement {
	m := Measurement{
		Params:  c.Params,
		Ordinal: c.Ordinal,
		Samples: samples,
	}
	if len(samples) == 0 {
		return m
	}
	m.Min, m.Max = samples[0], samples[0]
	var total float64
	for _, s := range samples {
		total += s
		if s < m.Min {
			m.Min = s
		}
		if s > m.Max {
			m.Max = s
		}
	}
	m.Mean = Round(total/float64(len(samples)), MeanPrecision)
	return m
}
