// internal/compiler/compiler.go
// Package compiler builds one executable per optimization level from a
// single source file.
package compiler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/mwiater/autotune/internal/procexec"
	"github.com/mwiater/autotune/internal/search"
	"github.com/mwiater/autotune/internal/util"
)

const (
	DefaultCompiler = "gcc"
	DefaultPrefix   = "autotune-"
)

var (
	runCommand procexec.Func = procexec.Run
	unsafeName               = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Config describes what to compile and where the executables go.
type Config struct {
	Compiler  string
	Source    string
	OptLevels []string
	CFlags    []string
	WorkDir   string
	Prefix    string
}

// Artifacts maps an optimization level to the executable built for it.
type Artifacts map[string]string

// Path returns the executable for an optimization level.
func (a Artifacts) Path(optLevel string) (string, bool) {
	p, ok := a[optLevel]
	return p, ok
}

// CompileError means a compiler invocation exited non-zero or could not be
// started. It aborts the tuning run.
type CompileError struct {
	OptLevel string
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile %s failed (exit %d): %s", e.OptLevel, e.ExitCode, strings.Join(e.Command, " "))
	if s := util.Diagnostic(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CompileError) Unwrap() error { return e.Err }

func (c Config) compiler() string {
	if s := strings.TrimSpace(c.Compiler); s != "" {
		return s
	}
	return DefaultCompiler
}

func (c Config) prefix() string {
	if c.Prefix != "" {
		return c.Prefix
	}
	return DefaultPrefix
}

func (c Config) workDir() string {
	if s := strings.TrimSpace(c.WorkDir); s != "" {
		return s
	}
	return "."
}

// ArtifactName derives the executable file name for an optimization level.
func ArtifactName(prefix, optLevel string) string {
	name := unsafeName.ReplaceAllString(strings.TrimLeft(optLevel, "-"), "_")
	name = prefix + name
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// Plan resolves the absolute artifact path for every optimization level
// without compiling anything. Two levels that would share a file name,
// including names that differ only in case, are rejected.
func Plan(cfg Config) (Artifacts, error) {
	artifacts := make(Artifacts, len(cfg.OptLevels))
	owners := make(map[string]string, len(cfg.OptLevels))
	for _, opt := range cfg.OptLevels {
		name := ArtifactName(cfg.prefix(), opt)
		folded := strings.ToLower(name)
		if other, taken := owners[folded]; taken {
			return nil, &search.ConfigurationError{
				Field:  "opt",
				Value:  opt,
				Reason: fmt.Sprintf("executable name %s collides with optimization level %q", name, other),
			}
		}
		owners[folded] = opt
		// A bare relative name would be looked up on $PATH when launched.
		path, err := filepath.Abs(filepath.Join(cfg.workDir(), name))
		if err != nil {
			return nil, fmt.Errorf("resolve executable path for %s: %w", opt, err)
		}
		artifacts[opt] = path
	}
	return artifacts, nil
}

// Command returns the compiler argv used for one optimization level.
func Command(cfg Config, optLevel, output string) []string {
	flag := optLevel
	if !strings.HasPrefix(flag, "-") {
		flag = "-" + flag
	}
	argv := []string{cfg.compiler(), flag}
	argv = append(argv, cfg.CFlags...)
	return append(argv, cfg.Source, "-o", output)
}

// Compile builds every optimization level in order and stops at the first
// failure.
func Compile(ctx context.Context, cfg Config) (Artifacts, error) {
	if _, err := os.Stat(cfg.Source); err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}
	artifacts, err := Plan(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.workDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	for _, opt := range cfg.OptLevels {
		argv := Command(cfg, opt, artifacts[opt])
		log.Printf("compiling %s: %s", opt, strings.Join(argv, " "))
		out, err := runCommand(ctx, argv[0], argv[1:]...)
		if err != nil {
			return nil, &CompileError{
				OptLevel: opt,
				Command:  argv,
				ExitCode: out.ExitCode,
				Stderr:   out.Stderr,
				Err:      err,
			}
		}
		if s := strings.TrimSpace(out.Stderr); s != "" {
			log.Printf("compiler diagnostics for %s:\n%s", opt, s)
		}
	}
	return artifacts, nil
}
