// internal/commands/policy.go
package calroute

import "github.com/spf13/cobra"

// policyCmd groups routing-policy CLI commands.
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Group commands for routing policies",
}

func init() {
	rootCmd.AddCommand(policyCmd)
}
