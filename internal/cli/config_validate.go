// internal/cli/config_validate.go
package cli

import (
	"fmt"

	"github.com/mwiater/autotune/internal/appconfig"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Group commands for working with config files",
}

// configValidateCmd checks a config file against the schema without running anything.
var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a JSON or YAML config file",
	Long: `Validate reads a config file on its own, without flags or environment
overrides, and reports every schema violation it finds. When no path is
given the file passed with --config is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no config file given; pass a path or --config")
		}
		if _, err := appconfig.Load(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
