// internal/commands/root.go
package calroute

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/calroute/internal/appconfig"
	"github.com/mwiater/calroute/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "calroute",
	Short: "calroute — calibrate local models and route tasks to the best one",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viperLoaded, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		for _, name := range []string{"runtime", "objective", "executionMode", "runtimeBinary", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		var cfg appconfig.Config
		if !viperLoaded {
			// Viper found no config file; appconfig.Load probes the legacy
			// root-level path before giving up on file configuration.
			if fileCfg, loadErr := appconfig.Load(cfgFile); loadErr == nil {
				cfg = fileCfg
				applyFlagOverrides(cmd, &cfg)
			}
		}
		if cfg.ConfigPath == "" {
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("unmarshal config: %w", err)
			}
			if viper.IsSet("timeout") {
				cfg.TimeoutSeconds = viper.GetInt("timeout")
			}
			cfg.ConfigPath = cfgFile
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("runtime", "", "inference runtime family (e.g., ollama)")
	rootCmd.PersistentFlags().String("objective", "", "optimization objective: speed, quality, or balanced")
	rootCmd.PersistentFlags().String("executionMode", "", "execution mode: dry-run, contract-only, or full")
	rootCmd.PersistentFlags().String("runtimeBinary", "", "path to the runtime binary (defaults to ollama)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("runtime", rootCmd.PersistentFlags().Lookup("runtime"))
	_ = viper.BindPFlag("objective", rootCmd.PersistentFlags().Lookup("objective"))
	_ = viper.BindPFlag("executionMode", rootCmd.PersistentFlags().Lookup("executionMode"))
	_ = viper.BindPFlag("runtimeBinary", rootCmd.PersistentFlags().Lookup("runtimeBinary"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and reports whether a file was found.
func ensureConfigLoaded() (bool, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return true, nil
}

// applyFlagOverrides copies explicitly changed persistent flags over values
// read from a config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *appconfig.Config) {
	if cmd.Flags().Changed("debug") {
		cfg.Debug = viper.GetBool("debug")
	}
	overrides := map[string]*string{
		"runtime":       &cfg.Runtime,
		"objective":     &cfg.Objective,
		"executionMode": &cfg.ExecutionMode,
		"runtimeBinary": &cfg.RuntimeBinary,
		"logFile":       &cfg.LogFile,
	}
	for name, field := range overrides {
		if cmd.Flags().Changed(name) {
			*field = viper.GetString(name)
		}
	}
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
