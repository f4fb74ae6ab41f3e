package search

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	// DefaultRepeat is how many times each configuration is timed.
	DefaultRepeat = 5
	// DefaultIterations is how many configurations random search samples.
	DefaultIterations = 10
)

// Runner times one execution of a configuration and returns elapsed seconds.
type Runner interface {
	Run(ctx context.Context, params ParameterSet) (float64, error)
}

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc func(ctx context.Context, params ParameterSet) (float64, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, params ParameterSet) (float64, error) {
	return f(ctx, params)
}

// Options tunes a strategy invocation. Zero values select the defaults.
type Options struct {
	Repeat     int
	Iterations int
	// Seed drives random search; 0 picks a fresh seed, recorded in the Result.
	Seed uint64
	// ClampIterations caps random search at the grid size instead of failing.
	ClampIterations bool
	// Observer, when set, is called after each configuration is measured.
	Observer func(Algorithm, Measurement)
}

func (o Options) withDefaults() Options {
	if o.Repeat <= 0 {
		o.Repeat = DefaultRepeat
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	return o
}

var (
	now       = time.Now
	freshSeed = rand.Uint64
)

// Search dispatches to the strategy named by alg.
func Search(ctx context.Context, alg Algorithm, grid *Grid, runner Runner, opts Options) (*Result, error) {
	switch alg {
	case AlgorithmGrid:
		return GridSearch(ctx, grid, runner, opts)
	case AlgorithmRandom:
		return RandomSearch(ctx, grid, runner, opts)
	default:
		return nil, &ConfigurationError{Field: "alg", Value: alg.String(), Reason: "unsupported algorithm"}
	}
}

// GridSearch measures every configuration of the grid in grid order.
//
// On a measurement failure the returned Result holds the configurations
// measured so far and no Best.
func GridSearch(ctx context.Context, grid *Grid, runner Runner, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	result := &Result{Algorithm: AlgorithmGrid, Repeat: opts.Repeat}

	start := now()
	for _, c := range grid.Combinations() {
		m, err := measure(ctx, runner, c, opts.Repeat)
		if err != nil {
			result.Duration = now().Sub(start)
			return result, fmt.Errorf("grid search %s: %w", c.Params.Key(), err)
		}
		result.Measurements = append(result.Measurements, m)
		if opts.Observer != nil {
			opts.Observer(AlgorithmGrid, m)
		}
	}
	result.finish(start)
	return result, nil
}

// RandomSearch draws opts.Iterations configurations without replacement and
// measures each one. The winner is the best of the sample, not necessarily
// the best of the grid.
func RandomSearch(ctx context.Context, grid *Grid, runner Runner, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	seed := opts.Seed
	if seed == 0 {
		seed = freshSeed()
	}
	pool := NewPool(grid.Combinations(), newRand(seed))

	iterations := opts.Iterations
	if opts.ClampIterations && iterations > pool.Len() {
		iterations = pool.Len()
	}
	if err := pool.Reserve(iterations); err != nil {
		return nil, fmt.Errorf("random search: %w", err)
	}

	result := &Result{Algorithm: AlgorithmRandom, Repeat: opts.Repeat, Seed: seed}
	start := now()
	for i := 0; i < iterations; i++ {
		c, err := pool.Draw()
		if err != nil {
			result.Duration = now().Sub(start)
			return result, fmt.Errorf("random search draw %d: %w", i+1, err)
		}
		m, err := measure(ctx, runner, c, opts.Repeat)
		if err != nil {
			result.Duration = now().Sub(start)
			return result, fmt.Errorf("random search %s: %w", c.Params.Key(), err)
		}
		result.Measurements = append(result.Measurements, m)
		if opts.Observer != nil {
			opts.Observer(AlgorithmRandom, m)
		}
	}
	result.finish(start)
	return result, nil
}

func (r *Result) finish(start time.Time) {
	if best, ok := SelectBest(r.Measurements); ok {
		r.Best = &best
	}
	r.Duration = now().Sub(start)
}

// measure runs one configuration repeat times, one run at a time.
func measure(ctx context.Context, runner Runner, c Combination, repeat int) (Measurement, error) {
	samples := make([]float64, 0, repeat)
	for i := 0; i < repeat; i++ {
		if err := ctx.Err(); err != nil {
			return Measurement{}, err
		}
		v, err := runner.Run(ctx, c.Params)
		if err != nil {
			return Measurement{}, err
		}
		samples = append(samples, v)
	}
	return summarize(c, samples), nil
}
