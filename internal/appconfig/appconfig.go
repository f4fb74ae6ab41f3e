// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	// DefaultOutputPath is where the text result file is written.
	DefaultOutputPath = "result.txt"
	// DefaultLogPath is the log file used when none is configured.
	DefaultLogPath = "autotune.log"
	// DefaultRepeat is how many runs are averaged per configuration.
	DefaultRepeat = 5
	// DefaultIterations is how many configurations random search samples.
	DefaultIterations = 10
)

// Config is the merged tuning configuration (flags > env > config file > defaults).
type Config struct {
	File             string   `json:"file" yaml:"file"`
	Blk              []string `json:"blk" yaml:"blk"`
	Opt              []string `json:"opt" yaml:"opt"`
	Alg              []string `json:"alg" yaml:"alg"`
	Repeat           int      `json:"repeat" yaml:"repeat"`
	Iterations       int      `json:"iterations" yaml:"iterations"`
	Seed             uint64   `json:"seed" yaml:"seed"`
	StrictIterations bool     `json:"strictIterations" yaml:"strictIterations"`
	Compiler         string   `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	CFlags           []string `json:"cflags,omitempty" yaml:"cflags,omitempty"`
	WorkDir          string   `json:"workDir,omitempty" yaml:"workDir,omitempty"`
	Prefix           string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Output           string   `json:"output,omitempty" yaml:"output,omitempty"`
	Export           string   `json:"export,omitempty" yaml:"export,omitempty"`
	ExportYAML       string   `json:"exportYaml,omitempty" yaml:"exportYaml,omitempty"`
	MetricsFile      string   `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty"`
	LogFile          string   `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	Debug            bool     `json:"debug" yaml:"debug"`
	NoColor          bool     `json:"noColor" yaml:"noColor"`
	ConfigPath       string   `json:"-" yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Blk:        []string{"32"},
		Opt:        []string{"O0"},
		Alg:        []string{"grid"},
		Repeat:     DefaultRepeat,
		Iterations: DefaultIterations,
	}
}

// Normalize splits comma-separated entries, trims tokens and drops blanks,
// so "8,16" and ["8", "16"] mean the same thing.
func (c *Config) Normalize() {
	c.File = strings.TrimSpace(c.File)
	c.Blk = SplitList(c.Blk...)
	c.Opt = SplitList(c.Opt...)
	c.Alg = SplitList(c.Alg...)
	for i, alg := range c.Alg {
		c.Alg[i] = strings.ToLower(alg)
	}
	c.CFlags = SplitList(c.CFlags...)
}

// SplitList flattens comma-separated values into one token list.
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

// RepeatCount returns the per-configuration repeat count, falling back to the default.
func (c Config) RepeatCount() int {
	if c.Repeat <= 0 {
		return DefaultRepeat
	}
	return c.Repeat
}

// IterationCount returns the random-search sample size, falling back to the default.
func (c Config) IterationCount() int {
	if c.Iterations <= 0 {
		return DefaultIterations
	}
	return c.Iterations
}

// OutputPath returns the result file path, applying a default if not set.
func (c Config) OutputPath() string {
	if path := strings.TrimSpace(c.Output); path != "" {
		return path
	}
	return DefaultOutputPath
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return DefaultLogPath
}

// Load reads a JSON or YAML config file (chosen by extension) on top of the
// defaults, then normalizes and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}

	cfg.ConfigPath = path
	cfg.Normalize()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
