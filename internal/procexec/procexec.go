// internal/procexec/procexec.go
// Package procexec runs child processes and captures their output.
package procexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

const (
	// DefaultMaxStdout bounds captured standard output.
	DefaultMaxStdout = 1 << 20
	// DefaultMaxStderr bounds captured standard error.
	DefaultMaxStderr = 1 << 20
)

// Output is what a finished child process left behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Func matches Run so callers can swap in a fake.
type Func func(ctx context.Context, bin string, args ...string) (Output, error)

// Run starts bin with args, waits for it to exit and returns its output.
// A non-nil error means the process could not start or exited non-zero;
// Output is populated as far as possible in both cases.
func Run(ctx context.Context, bin string, args ...string) (Output, error) {
	return RunLimited(ctx, bin, args, DefaultMaxStdout, DefaultMaxStderr)
}

// RunLimited is Run with explicit capture limits.
func RunLimited(ctx context.Context, bin string, args []string, maxStdout, maxStderr int64) (Output, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Output{ExitCode: 127}, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Output{ExitCode: 127}, err
	}

	if err := cmd.Start(); err != nil {
		return Output{ExitCode: 127}, err
	}

	var outBuf, errBuf bytes.Buffer
	outDone := make(chan error, 1)
	errDone := make(chan error, 1)

	go func() {
		_, e := io.Copy(&outBuf, io.LimitReader(stdoutPipe, maxStdout))
		_, _ = io.Copy(io.Discard, stdoutPipe)
		outDone <- e
	}()
	go func() {
		_, e := io.Copy(&errBuf, io.LimitReader(stderrPipe, maxStderr))
		_, _ = io.Copy(io.Discard, stderrPipe)
		errDone <- e
	}()

	// Pipes must be drained before Wait closes them.
	<-outDone
	<-errDone
	waitErr := cmd.Wait()

	out := Output{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if waitErr != nil {
		out.ExitCode = ExitStatus(waitErr)
		return out, waitErr
	}
	return out, nil
}

// ExitStatus extracts the exit code from a Wait error, or 1 when the error
// carries none.
func ExitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}
