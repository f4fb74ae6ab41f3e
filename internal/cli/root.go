// internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/mwiater/autotune/internal/appconfig"
	"github.com/mwiater/autotune/internal/autotune"
	"github.com/mwiater/autotune/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	runTuning     = autotune.Run
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// flagKeys maps flag names to the viper keys (and config file keys) they set.
var flagKeys = map[string]string{
	"file":              "file",
	"blk":               "blk",
	"opt":               "opt",
	"alg":               "alg",
	"repeat":            "repeat",
	"iterations":        "iterations",
	"seed":              "seed",
	"strict-iterations": "strictIterations",
	"compiler":          "compiler",
	"cflags":            "cflags",
	"workdir":           "workDir",
	"prefix":            "prefix",
	"output":            "output",
	"export":            "export",
	"export-yaml":       "exportYaml",
	"metrics-file":      "metricsFile",
	"logFile":           "logFile",
	"debug":             "debug",
	"no-color":          "noColor",
}

// rootCmd compiles the target once per optimization level, searches the
// block size x optimization level grid and writes the results.
var rootCmd = &cobra.Command{
	Use:   "autotune",
	Short: "Find the fastest block size and optimization level for a program",
	Long: `autotune compiles a source file once per optimization level, runs the
resulting binaries with every requested block size (grid search) or a random
sample of them (random search), averages several runs per configuration and
reports the configuration with the lowest mean execution time.

The target must print its own elapsed time in seconds, and nothing else, on
standard output when run with the block size as its only argument.`,
	Example:      `  autotune --file matmul.c --blk 8,16,32,64 --opt O0,O1,O2,O3 --alg grid,random`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag so
		//    both pflags and viper reflect the same, final value.
		for _, name := range []string{"debug", "no-color", "strict-iterations"} {
			if flag := cmd.Flags().Lookup(name); flag != nil && !flag.Changed {
				_ = flag.Value.Set(strconv.FormatBool(viper.GetBool(flagKeys[name])))
			}
		}

		// 3) Materialize the fully merged configuration into currentConfig
		//    (flags > env > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		cfg.Normalize()
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(cfg.Debug)
		if cfg.Debug {
			pp.Fprintln(cmd.ErrOrStderr(), cfg)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}
		if err := appconfig.Validate(*cfg); err != nil {
			return err
		}
		deps := autotune.DefaultDependencies()
		deps.Out = cmd.OutOrStdout()
		_, err := runTuning(cmd.Context(), *cfg, deps)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = versionString()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file, JSON or YAML (e.g., autotune.yaml)")

	flags.String("file", "", "source file to compile (required)")
	flags.String("blk", "32", "comma-separated block sizes")
	flags.String("opt", "O0", "comma-separated optimization levels")
	flags.String("alg", "grid", "comma-separated search algorithms (grid, random)")
	flags.Int("repeat", appconfig.DefaultRepeat, "runs averaged per configuration")
	flags.Int("iterations", appconfig.DefaultIterations, "configurations sampled by random search")
	flags.Uint64("seed", 0, "random search seed (0 = random)")
	flags.Bool("strict-iterations", false, "fail instead of clamping when iterations exceed the grid size")
	flags.String("compiler", "gcc", "compiler executable")
	flags.String("cflags", "", "comma-separated extra compiler flags")
	flags.String("workdir", ".", "directory for compiled executables")
	flags.String("prefix", "autotune-", "file name prefix for compiled executables")
	flags.String("output", appconfig.DefaultOutputPath, "text result file")
	flags.String("export", "", "also write the full report to this JSON file")
	flags.String("export-yaml", "", "also write the full report to this YAML file")
	flags.String("metrics-file", "", "write Prometheus textfile metrics to this path")
	flags.String("logFile", "", "path to the log file")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("no-color", false, "disable colored output")

	for name, key := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	viper.SetEnvPrefix("AUTOTUNE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// ensureConfigLoaded reads the config file when one was given.
func ensureConfigLoaded() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = versionString()
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)
}
