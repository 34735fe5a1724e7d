// internal/commands/show.go
package calroute

import "github.com/spf13/cobra"

// showCmd groups commands that display application state.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying application state",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
