// internal/cli/show_config.go
package cli

import (
	"github.com/mwiater/autotune/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd prints the merged configuration a run would use.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags and environment variables accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), GetConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
