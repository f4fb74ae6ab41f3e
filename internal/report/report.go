// internal/report/report.go
// Package report serializes the results of the search strategies that ran.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/autotune/internal/search"
	"github.com/mwiater/autotune/internal/util"
)

// Report gathers the results of one tuning run. A strategy that was not
// requested, or did not finish, has a nil result and no section.
type Report struct {
	RunID     string         `json:"runId" yaml:"runId"`
	Source    string         `json:"source" yaml:"source"`
	StartedAt time.Time      `json:"startedAt" yaml:"startedAt"`
	Grid      *search.Result `json:"grid,omitempty" yaml:"grid,omitempty"`
	Random    *search.Result `json:"random,omitempty" yaml:"random,omitempty"`
}

// New starts a report for a source file.
func New(source string, startedAt time.Time) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: startedAt,
	}
}

// Add stores a completed strategy result under its algorithm.
func (r *Report) Add(result *search.Result) error {
	if result == nil {
		return nil
	}
	switch result.Algorithm {
	case search.AlgorithmGrid:
		r.Grid = result
	case search.AlgorithmRandom:
		r.Random = result
	default:
		return fmt.Errorf("report: unknown algorithm %v", result.Algorithm)
	}
	return nil
}

// Results returns the present results, grid first.
func (r *Report) Results() []*search.Result {
	var out []*search.Result
	if r.Grid != nil {
		out = append(out, r.Grid)
	}
	if r.Random != nil {
		out = append(out, r.Random)
	}
	return out
}

// Empty reports whether no strategy result is present.
func (r *Report) Empty() bool { return len(r.Results()) == 0 }

// WriteText writes one section per present strategy, separated by a blank line.
func (r *Report) WriteText(w io.Writer) error {
	sections := make([]string, 0, 2)
	for _, res := range r.Results() {
		sections = append(sections, formatSection(res))
	}
	_, err := io.WriteString(w, strings.Join(sections, "\n"))
	return err
}

// WriteFile writes the text report to path, creating parent directories.
func (r *Report) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		return err
	}
	return util.WriteFile(path, buf.Bytes())
}

func formatSection(res *search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s search result\n", res.Algorithm)
	fmt.Fprintf(&b, "all combinations: %s\n", FormatTable(res))
	if res.HasBest() {
		fmt.Fprintf(&b, "best parameter combination: %s\n", res.Best.Key())
		fmt.Fprintf(&b, "best time: %s\n", FormatSeconds(res.Best.Mean))
	} else {
		b.WriteString("best parameter combination: none\n")
		b.WriteString("best time: none\n")
	}
	fmt.Fprintf(&b, "algorithm run time: %s s\n", FormatSeconds(res.DurationSeconds()))
	return b.String()
}

// FormatTable renders the key to mean mapping in measurement order.
func FormatTable(res *search.Result) string {
	entries := make([]string, 0, res.Len())
	for _, m := range res.Measurements {
		entries = append(entries, fmt.Sprintf("%q: %s", m.Key(), FormatSeconds(m.Mean)))
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// FormatSeconds prints a time value without trailing zeros.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
