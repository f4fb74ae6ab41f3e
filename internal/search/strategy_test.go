package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRunner returns fixed timings per key and counts calls.
type countingRunner struct {
	times    map[string]float64
	fallback float64
	calls    map[string]int
	failOn   string
}

func newCountingRunner(times map[string]float64, fallback float64) *countingRunner {
	return &countingRunner{times: times, fallback: fallback, calls: map[string]int{}}
}

func (r *countingRunner) Run(_ context.Context, p ParameterSet) (float64, error) {
	key := p.Key()
	r.calls[key]++
	if key == r.failOn {
		return 0, fmt.Errorf("parse %q: not a number", "Segmentation fault")
	}
	if v, ok := r.times[key]; ok {
		return v, nil
	}
	return r.fallback, nil
}

func scenarioGrid(t *testing.T) *Grid {
	t.Helper()
	grid, err := NewGrid([]string{"8", "16"}, []string{"O0", "O1"})
	require.NoError(t, err)
	return grid
}

func TestGridSearchScenarioA(t *testing.T) {
	runner := newCountingRunner(map[string]float64{"8,O0": 10.0}, 5.0)

	result, err := GridSearch(context.Background(), scenarioGrid(t), runner, Options{Repeat: 5})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"8,O0":  10.0,
		"8,O1":  5.0,
		"16,O0": 5.0,
		"16,O1": 5.0,
	}, result.Table())
	assert.Equal(t, []string{"8,O0", "8,O1", "16,O0", "16,O1"}, result.Keys())

	require.True(t, result.HasBest())
	assert.Equal(t, 5.0, result.Best.Mean)
	assert.Equal(t, "8,O1", result.Best.Key())

	for key, n := range runner.calls {
		assert.Equalf(t, 5, n, "runner calls for %s", key)
	}
}

func TestGridSearchEntriesAreRoundedMeans(t *testing.T) {
	var n int
	runner := RunnerFunc(func(context.Context, ParameterSet) (float64, error) {
		n++
		return 0.1 * float64(n%3+1), nil
	})
	grid, err := NewGrid([]string{"32", "64", "128"}, []string{"O0", "O2", "O3"})
	require.NoError(t, err)

	result, err := GridSearch(context.Background(), grid, runner, Options{Repeat: 4})
	require.NoError(t, err)
	require.Equal(t, grid.Size(), result.Len())

	for _, m := range result.Measurements {
		require.Len(t, m.Samples, 4)
		var total float64
		for _, s := range m.Samples {
			total += s
		}
		assert.InDelta(t, total/4, m.Mean, 0.00005)
		assert.Equal(t, Round(m.Mean, MeanPrecision), m.Mean)
		assert.GreaterOrEqual(t, m.Mean, 0.0)
		assert.LessOrEqual(t, m.Min, m.Mean)
		assert.GreaterOrEqual(t, m.Max, m.Mean)
	}
}

func TestGridSearchIdempotent(t *testing.T) {
	times := map[string]float64{"8,O0": 3.25, "8,O1": 1.5, "16,O0": 2.125, "16,O1": 1.5}
	grid := scenarioGrid(t)

	first, err := GridSearch(context.Background(), grid, newCountingRunner(times, 0), Options{})
	require.NoError(t, err)
	second, err := GridSearch(context.Background(), grid, newCountingRunner(times, 0), Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Table(), second.Table())
	assert.Equal(t, first.Keys(), second.Keys())
	assert.Equal(t, first.Best, second.Best)
	assert.Equal(t, DefaultRepeat, first.Repeat)
}

func TestGridSearchMeasurementFailureKeepsEarlierEntries(t *testing.T) {
	runner := newCountingRunner(map[string]float64{"8,O0": 2.0, "8,O1": 1.0}, 4.0)
	runner.failOn = "16,O0"

	result, err := GridSearch(context.Background(), scenarioGrid(t), runner, Options{Repeat: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16,O0")

	require.NotNil(t, result)
	assert.False(t, result.HasBest())
	assert.Equal(t, map[string]float64{"8,O0": 2.0, "8,O1": 1.0}, result.Table())
	assert.Zero(t, runner.calls["16,O1"])
}

func TestGridSearchRecordsWallClock(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 1500 * time.Millisecond)
	}
	t.Cleanup(func() { now = time.Now })

	result, err := GridSearch(context.Background(), scenarioGrid(t), newCountingRunner(nil, 1), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, result.Duration)
	assert.Equal(t, 1.5, result.DurationSeconds())
}

func TestGridSearchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := newCountingRunner(nil, 1)
	result, err := GridSearch(ctx, scenarioGrid(t), runner, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Len())
	assert.Empty(t, runner.calls)
}

func TestRandomSearchScenarioB(t *testing.T) {
	runner := newCountingRunner(nil, 1)

	result, err := RandomSearch(context.Background(), scenarioGrid(t), runner, Options{Iterations: 3, Repeat: 5, Seed: 42})
	require.NoError(t, err)

	require.Equal(t, 3, result.Len())
	assert.Len(t, result.Table(), 3)
	assert.Equal(t, uint64(42), result.Seed)
	for key, n := range runner.calls {
		assert.Equalf(t, 5, n, "runner calls for %s", key)
	}
}

func TestRandomSearchSamplesWithoutReplacement(t *testing.T) {
	grid, err := NewGrid([]string{"8", "16", "32", "64"}, []string{"O0", "O1", "O2"})
	require.NoError(t, err)
	valid := map[string]bool{}
	for _, c := range grid.Combinations() {
		valid[c.Params.Key()] = true
	}

	for seed := uint64(1); seed <= 50; seed++ {
		result, err := RandomSearch(context.Background(), grid, newCountingRunner(nil, 1), Options{Iterations: grid.Size(), Repeat: 1, Seed: seed})
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, key := range result.Keys() {
			require.Truef(t, valid[key], "seed %d drew %s outside the grid", seed, key)
			require.Falsef(t, seen[key], "seed %d drew %s twice", seed, key)
			seen[key] = true
		}
		require.Len(t, seen, grid.Size())
	}
}

func TestRandomSearchSameSeedSameSample(t *testing.T) {
	grid, err := NewGrid([]string{"8", "16", "32"}, []string{"O0", "O1", "O2"})
	require.NoError(t, err)

	a, err := RandomSearch(context.Background(), grid, newCountingRunner(nil, 1), Options{Iterations: 5, Seed: 7})
	require.NoError(t, err)
	b, err := RandomSearch(context.Background(), grid, newCountingRunner(nil, 1), Options{Iterations: 5, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, a.Keys(), b.Keys())
}

func TestRandomSearchFreshSeedIsRecorded(t *testing.T) {
	freshSeed = func() uint64 { return 99 }
	t.Cleanup(func() { freshSeed = rand.Uint64 })

	result, err := RandomSearch(context.Background(), scenarioGrid(t), newCountingRunner(nil, 1), Options{Iterations: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(99), result.Seed)
}

func TestRandomSearchTooManyIterations(t *testing.T) {
	runner := newCountingRunner(nil, 1)

	result, err := RandomSearch(context.Background(), scenarioGrid(t), runner, Options{Iterations: 10, Seed: 1})
	require.ErrorIs(t, err, ErrPoolExhausted)
	assert.Nil(t, result)
	assert.Empty(t, runner.calls, "no configuration may be measured when the precondition fails")
}

func TestRandomSearchClampsIterations(t *testing.T) {
	result, err := RandomSearch(context.Background(), scenarioGrid(t), newCountingRunner(nil, 1), Options{Iterations: 10, Seed: 1, ClampIterations: true})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Len())
}

func TestRandomSearchBestIsBestOfSample(t *testing.T) {
	times := map[string]float64{"8,O0": 4, "8,O1": 3, "16,O0": 2, "16,O1": 1}
	result, err := RandomSearch(context.Background(), scenarioGrid(t), newCountingRunner(times, 0), Options{Iterations: 2, Seed: 3})
	require.NoError(t, err)

	require.True(t, result.HasBest())
	best := result.Best.Mean
	for _, m := range result.Measurements {
		assert.LessOrEqual(t, best, m.Mean)
	}
}

func TestSelectBestTieBreaksByGridOrder(t *testing.T) {
	measured := []Measurement{
		{Params: ParameterSet{"16", "O1"}, Ordinal: 3, Mean: 1},
		{Params: ParameterSet{"8", "O0"}, Ordinal: 0, Mean: 2},
		{Params: ParameterSet{"8", "O1"}, Ordinal: 1, Mean: 1},
	}
	best, ok := SelectBest(measured)
	require.True(t, ok)
	assert.Equal(t, "8,O1", best.Key())

	_, ok = SelectBest(nil)
	assert.False(t, ok)
}

func TestSearchDispatch(t *testing.T) {
	grid := scenarioGrid(t)
	runner := newCountingRunner(nil, 1)

	result, err := Search(context.Background(), AlgorithmGrid, grid, runner, Options{Repeat: 1})
	require.NoError(t, err)
	assert.Equal(t, AlgorithmGrid, result.Algorithm)

	result, err = Search(context.Background(), AlgorithmRandom, grid, runner, Options{Repeat: 1, Iterations: 2, Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, AlgorithmRandom, result.Algorithm)

	_, err = Search(context.Background(), Algorithm(9), grid, runner, Options{})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}
