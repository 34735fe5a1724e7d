// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig writes the effective configuration, falling back to flag-derived
// values when no config has been loaded.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintf(out, "  Runtime:             %s\n", cfg.RuntimeName())
	fmt.Fprintf(out, "  Execution Mode:      %s\n", cfg.ExecutionModeName())
	fmt.Fprintf(out, "  Objective:           %s\n", cfg.ObjectiveName())
	fmt.Fprintf(out, "  Models:              %s\n", strings.Join(cfg.Models, ", "))
	fmt.Fprintf(out, "  Suite Path:          %s\n", cfg.SuitePath)
	fmt.Fprintf(out, "  Warmup Runs:         %d\n", cfg.WarmupCount())
	fmt.Fprintf(out, "  Measured Iterations: %d\n", cfg.IterationCount())
	fmt.Fprintf(out, "  Prompt Timeout:      %s\n", cfg.PromptTimeout())
	fmt.Fprintf(out, "  Result Path:         %s\n", cfg.ResultPath)
	fmt.Fprintf(out, "  Policy Path:         %s\n", cfg.PolicyPath)
	fmt.Fprintf(out, "  Runtime Binary:      %s\n", cfg.RuntimeBinary)
	fmt.Fprintf(out, "  Log File:            %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:               %v\n", cfg.Debug)
}
