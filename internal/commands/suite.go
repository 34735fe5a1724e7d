// internal/commands/suite.go
package calroute

import "github.com/spf13/cobra"

// suiteCmd groups prompt-suite CLI commands.
var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Group commands for prompt suites",
}

func init() {
	rootCmd.AddCommand(suiteCmd)
}
