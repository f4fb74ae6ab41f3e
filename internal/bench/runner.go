// internal/bench/runner.go
// Package bench launches compiled targets and reads back the elapsed time
// they report on standard output.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mwiater/autotune/internal/procexec"
	"github.com/mwiater/autotune/internal/search"
	"github.com/mwiater/autotune/internal/util"
)

// ErrNoArtifact means no executable was built for the requested
// optimization level.
var ErrNoArtifact = errors.New("no executable for optimization level")

// Resolver finds the executable compiled for an optimization level.
type Resolver interface {
	Path(optLevel string) (string, bool)
}

// MeasurementError means a run produced no usable timing value.
type MeasurementError struct {
	Key    string
	Binary string
	Output string
	Err    error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measure %s (%s): %v", e.Key, e.Binary, e.Err)
}

func (e *MeasurementError) Unwrap() error { return e.Err }

// Executor runs the executable for a configuration with its block size as
// the only argument. It implements search.Runner.
type Executor struct {
	artifacts Resolver
	run       procexec.Func
}

// NewExecutor returns an Executor that launches real processes.
func NewExecutor(artifacts Resolver) *Executor {
	return &Executor{artifacts: artifacts, run: procexec.Run}
}

// Run launches one timed execution and waits for it. No timeout is applied
// beyond whatever ctx carries.
func (e *Executor) Run(ctx context.Context, params search.ParameterSet) (float64, error) {
	bin, ok := e.artifacts.Path(params.OptLevel)
	if !ok {
		return 0, &MeasurementError{Key: params.Key(), Err: fmt.Errorf("%w %q", ErrNoArtifact, params.OptLevel)}
	}

	out, err := e.run(ctx, bin, params.BlockSize)
	if err != nil {
		cause := fmt.Errorf("exit %d: %w", out.ExitCode, err)
		if s := util.Diagnostic(out.Stderr); s != "" {
			cause = fmt.Errorf("exit %d: %w: %s", out.ExitCode, err, s)
		}
		return 0, &MeasurementError{Key: params.Key(), Binary: bin, Output: out.Stdout, Err: cause}
	}

	seconds, err := ParseTiming(out.Stdout)
	if err != nil {
		return 0, &MeasurementError{Key: params.Key(), Binary: bin, Output: out.Stdout, Err: err}
	}
	return seconds, nil
}

// ParseTiming reads the single elapsed-seconds token a target prints.
func ParseTiming(stdout string) (float64, error) {
	token := strings.TrimSpace(stdout)
	if token == "" {
		return 0, errors.New("empty output")
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		// NumError repeats the whole input; keep only its cause.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, fmt.Errorf("parse timing %q: %w", util.TruncateRunes(token, 64), err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("timing %q is not a non-negative finite number", token)
	}
	return v, nil
}
