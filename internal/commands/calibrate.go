// internal/commands/calibrate.go
package calroute

import "github.com/spf13/cobra"

// calibrateCmd groups calibration-related CLI commands.
var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Group commands for running model calibration",
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}
