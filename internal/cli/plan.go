// internal/cli/plan.go
package cli

import (
	"fmt"

	"github.com/mwiater/autotune/internal/appconfig"
	"github.com/mwiater/autotune/internal/autotune"
	"github.com/spf13/cobra"
)

// planCmd validates the request and prints what a run would do.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the compile commands and benchmark launches without running them",
	Long: `The 'plan' command validates the configuration, then prints the search grid,
the compiler invocation for every optimization level and the number of
benchmark launches each search strategy needs. Nothing is compiled or run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}
		if err := appconfig.Validate(*cfg); err != nil {
			return err
		}
		plan, err := autotune.NewPlan(*cfg)
		if err != nil {
			return err
		}
		plan.Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
