package autotune

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/autotune/internal/appconfig"
	"github.com/mwiater/autotune/internal/compiler"
	"github.com/mwiater/autotune/internal/search"
)

// Plan is what a run would do, worked out without compiling or launching anything.
type Plan struct {
	Grid       *search.Grid
	Algorithms []search.Algorithm
	Artifacts  compiler.Artifacts
	Commands   [][]string
	Launches   map[search.Algorithm]int
}

// NewPlan validates cfg and computes the compile commands and the number of
// benchmark launches each strategy needs.
func NewPlan(cfg appconfig.Config) (*Plan, error) {
	cfg.Normalize()
	algorithms, grid, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	ccfg := CompilerConfig(cfg)
	artifacts, err := compiler.Plan(ccfg)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Grid:       grid,
		Algorithms: algorithms,
		Artifacts:  artifacts,
		Launches:   map[search.Algorithm]int{},
	}
	for _, opt := range grid.OptLevels() {
		p.Commands = append(p.Commands, compiler.Command(ccfg, opt, artifacts[opt]))
	}
	for _, alg := range algorithms {
		configs := grid.Size()
		if alg == search.AlgorithmRandom && cfg.IterationCount() < configs {
			configs = cfg.IterationCount()
		}
		p.Launches[alg] = configs * cfg.RepeatCount()
	}
	return p, nil
}

// Print writes a human-readable plan.
func (p *Plan) Print(w io.Writer) {
	fmt.Fprintf(w, "Grid: %s\n", p.Grid)
	fmt.Fprintln(w, "Compile commands:")
	for _, argv := range p.Commands {
		fmt.Fprintf(w, "  %s\n", strings.Join(argv, " "))
	}
	fmt.Fprintln(w, "Benchmark launches:")
	total := 0
	for _, alg := range p.Algorithms {
		fmt.Fprintf(w, "  %-7s %d\n", alg, p.Launches[alg])
		total += p.Launches[alg]
	}
	fmt.Fprintf(w, "  %-7s %d\n", "total", total)
}
