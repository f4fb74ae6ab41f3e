// internal/autotune/autotune.go
// Package autotune wires the pipeline together: compile every optimization
// level, run the requested search strategies and write the reports.
package autotune

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mwiater/autotune/internal/appconfig"
	"github.com/mwiater/autotune/internal/bench"
	"github.com/mwiater/autotune/internal/compiler"
	"github.com/mwiater/autotune/internal/logging"
	"github.com/mwiater/autotune/internal/report"
	"github.com/mwiater/autotune/internal/search"
)

// Dependencies are the collaborators Run drives. Tests replace them.
type Dependencies struct {
	Compile   func(ctx context.Context, cfg compiler.Config) (compiler.Artifacts, error)
	NewRunner func(artifacts compiler.Artifacts) search.Runner
	Now       func() time.Time
	Out       io.Writer
}

// DefaultDependencies compiles with the real toolchain and launches real processes.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Compile: compiler.Compile,
		NewRunner: func(artifacts compiler.Artifacts) search.Runner {
			return bench.NewExecutor(artifacts)
		},
		Now: time.Now,
		Out: os.Stdout,
	}
}

func (d Dependencies) withDefaults() Dependencies {
	def := DefaultDependencies()
	if d.Compile == nil {
		d.Compile = def.Compile
	}
	if d.NewRunner == nil {
		d.NewRunner = def.NewRunner
	}
	if d.Now == nil {
		d.Now = def.Now
	}
	if d.Out == nil {
		d.Out = def.Out
	}
	return d
}

// CompilerConfig maps the tuning configuration onto the compiler's.
func CompilerConfig(cfg appconfig.Config) compiler.Config {
	return compiler.Config{
		Compiler:  cfg.Compiler,
		Source:    cfg.File,
		OptLevels: cfg.Opt,
		CFlags:    cfg.CFlags,
		WorkDir:   cfg.WorkDir,
		Prefix:    cfg.Prefix,
	}
}

// Run executes a full tuning run. Every optimization level is compiled
// before the first benchmark starts; strategies then run one after another
// in request order.
//
// When a strategy fails, the reports are still written with the strategies
// that completed, and the failure is returned alongside them.
func Run(ctx context.Context, cfg appconfig.Config, deps Dependencies) (*report.Report, error) {
	deps = deps.withDefaults()
	cfg.Normalize()

	algorithms, grid, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	artifacts, err := deps.Compile(ctx, CompilerConfig(cfg))
	if err != nil {
		return nil, err
	}
	logging.LogEvent("compiled %d optimization level(s)", len(artifacts))
	runner := deps.NewRunner(artifacts)

	opts := search.Options{
		Repeat:          cfg.RepeatCount(),
		Iterations:      cfg.IterationCount(),
		Seed:            cfg.Seed,
		ClampIterations: !cfg.StrictIterations,
		Observer: func(alg search.Algorithm, m search.Measurement) {
			logging.LogMeasurement(alg.String(), m.Key(), m.Mean, m.Samples)
		},
	}

	rep := report.New(cfg.File, deps.Now())
	for _, alg := range algorithms {
		logging.LogEvent("running %s search over %s, %d run(s) per configuration", alg, grid, opts.Repeat)
		result, err := search.Search(ctx, alg, grid, runner, opts)
		if err != nil {
			if werr := writeOutputs(cfg, rep); werr != nil {
				log.Printf("writing partial reports: %v", werr)
			}
			return rep, fmt.Errorf("%s search: %w", alg, err)
		}
		if err := rep.Add(result); err != nil {
			return rep, err
		}
		if result.HasBest() {
			logging.LogEvent("%s search best: %s (%s s), run time %s s",
				alg, result.Best.Key(), report.FormatSeconds(result.Best.Mean), report.FormatSeconds(result.DurationSeconds()))
		}
		if result.Seed != 0 {
			logging.Debugf("%s search seed: %d", alg, result.Seed)
		}
	}

	if err := writeOutputs(cfg, rep); err != nil {
		return rep, err
	}
	report.PrintSummary(deps.Out, rep, cfg.NoColor)
	return rep, nil
}

// prepare validates the request before anything is compiled.
func prepare(cfg appconfig.Config) ([]search.Algorithm, *search.Grid, error) {
	algorithms, err := search.ParseAlgorithms(cfg.Alg)
	if err != nil {
		return nil, nil, err
	}
	grid, err := search.NewGrid(cfg.Blk, cfg.Opt)
	if err != nil {
		return nil, nil, err
	}
	if _, err := compiler.Plan(CompilerConfig(cfg)); err != nil {
		return nil, nil, err
	}

	for _, alg := range algorithms {
		if alg != search.AlgorithmRandom || cfg.IterationCount() <= grid.Size() {
			continue
		}
		if cfg.StrictIterations {
			return nil, nil, fmt.Errorf("random search: %w: %d iterations requested, grid has %d configurations",
				search.ErrPoolExhausted, cfg.IterationCount(), grid.Size())
		}
		log.Printf("random search: %d iterations requested but the grid has %d configurations; sampling all of them",
			cfg.IterationCount(), grid.Size())
	}
	return algorithms, grid, nil
}

func writeOutputs(cfg appconfig.Config, rep *report.Report) error {
	path := cfg.OutputPath()
	if err := rep.WriteFile(path); err != nil {
		return err
	}
	logging.LogEvent("results written to %s", path)

	if cfg.Export != "" {
		if err := rep.WriteJSON(cfg.Export); err != nil {
			return err
		}
		logging.LogEvent("json report written to %s", cfg.Export)
	}
	if cfg.ExportYAML != "" {
		if err := rep.WriteYAML(cfg.ExportYAML); err != nil {
			return err
		}
		logging.LogEvent("yaml report written to %s", cfg.ExportYAML)
	}
	if cfg.MetricsFile != "" {
		if err := rep.WriteMetrics(cfg.MetricsFile); err != nil {
			return err
		}
		logging.LogEvent("metrics written to %s", cfg.MetricsFile)
	}
	return nil
}
