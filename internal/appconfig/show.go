package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg *Config) {
	if cfg == nil {
		fmt.Fprintln(out, "configuration is not initialized")
		return
	}
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using flags, environment and defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Source file:     %s\n", cfg.File)
	fmt.Fprintf(out, "  Block sizes:     %s\n", strings.Join(cfg.Blk, ","))
	fmt.Fprintf(out, "  Opt levels:      %s\n", strings.Join(cfg.Opt, ","))
	fmt.Fprintf(out, "  Algorithms:      %s\n", strings.Join(cfg.Alg, ","))
	fmt.Fprintf(out, "  Repeat:          %d\n", cfg.RepeatCount())
	fmt.Fprintf(out, "  Iterations:      %d (strict: %v)\n", cfg.IterationCount(), cfg.StrictIterations)
	fmt.Fprintf(out, "  Seed:            %d\n", cfg.Seed)
	fmt.Fprintf(out, "  Compiler:        %s %s\n", cfg.Compiler, strings.Join(cfg.CFlags, " "))
	fmt.Fprintf(out, "  Work dir:        %s\n", cfg.WorkDir)
	fmt.Fprintf(out, "  Result file:     %s\n", cfg.OutputPath())
	if cfg.Export != "" {
		fmt.Fprintf(out, "  JSON export:     %s\n", cfg.Export)
	}
	if cfg.ExportYAML != "" {
		fmt.Fprintf(out, "  YAML export:     %s\n", cfg.ExportYAML)
	}
	if cfg.MetricsFile != "" {
		fmt.Fprintf(out, "  Metrics file:    %s\n", cfg.MetricsFile)
	}
	fmt.Fprintf(out, "  Log file:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
}
