// internal/commands/suite_validate.go
package calroute

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/calroute/internal/suite"
)

var suiteValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a JSONL prompt suite",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else if cfg := GetConfig(); cfg != nil {
			path = cfg.SuitePath
		}
		if path == "" {
			return fmt.Errorf("no prompt suite given (pass a path or set suitePath)")
		}

		s, err := suite.Load(path)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", color.RedString("INVALID:"), err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("VALID:"), path)
		fmt.Fprintf(cmd.OutOrStdout(), "  %d prompts across %d tasks\n", len(s.Entries), len(s.Tasks()))
		for _, task := range s.Tasks() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", task, s.TaskBreakdown[task])
		}
		return nil
	},
}

func init() {
	suiteCmd.AddCommand(suiteValidateCmd)
}
