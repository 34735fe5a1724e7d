// internal/commands/show_config.go
package calroute

import (
	"github.com/mwiater/calroute/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Runtime:       viper.GetString("runtime"),
			ExecutionMode: viper.GetString("executionMode"),
			Objective:     viper.GetString("objective"),
			RuntimeBinary: viper.GetString("runtimeBinary"),
			LogFile:       viper.GetString("logFile"),
			Debug:         viper.GetBool("debug"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
