// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultPromptTimeout bounds a single prompt execution against the runtime.
	defaultPromptTimeout = 120 * time.Second
	// defaultWarmupRuns is the number of discarded priming executions per prompt.
	defaultWarmupRuns = 1
	// defaultMeasuredIterations is the number of timed executions per prompt.
	defaultMeasuredIterations = 3
)

// Config represents the top-level application configuration.
type Config struct {
	Runtime            string   `json:"runtime"`
	ExecutionMode      string   `json:"executionMode"`
	Objective          string   `json:"objective"`
	Models             []string `json:"models"`
	SuitePath          string   `json:"suitePath"`
	WarmupRuns         int      `json:"warmupRuns,omitempty"`
	MeasuredIterations int      `json:"measuredIterations,omitempty"`
	TimeoutSeconds     int      `json:"timeout,omitempty"`
	ResultPath         string   `json:"resultPath,omitempty"`
	PolicyPath         string   `json:"policyPath,omitempty"`
	RuntimeBinary      string   `json:"runtimeBinary,omitempty"`
	LogFile            string   `json:"logFile,omitempty"`
	Debug              bool     `json:"debug"`
	ConfigPath         string   `json:"-"`
}

// PromptTimeout returns the per-prompt execution timeout, falling back to the default if not specified.
func (c Config) PromptTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultPromptTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WarmupCount returns the configured warmup run count, applying the default when unset.
func (c Config) WarmupCount() int {
	if c.WarmupRuns < 0 {
		return 0
	}
	if c.WarmupRuns == 0 {
		return defaultWarmupRuns
	}
	return c.WarmupRuns
}

// IterationCount returns the configured measured iteration count, applying the default when unset.
func (c Config) IterationCount() int {
	if c.MeasuredIterations <= 0 {
		return defaultMeasuredIterations
	}
	return c.MeasuredIterations
}

// RuntimeName returns the declared inference runtime, defaulting to ollama.
func (c Config) RuntimeName() string {
	if r := strings.TrimSpace(c.Runtime); r != "" {
		return strings.ToLower(r)
	}
	return "ollama"
}

// ObjectiveName returns the optimization objective, defaulting to balanced.
func (c Config) ObjectiveName() string {
	if o := strings.TrimSpace(c.Objective); o != "" {
		return strings.ToLower(o)
	}
	return "balanced"
}

// ExecutionModeName returns the execution mode, defaulting to full.
func (c Config) ExecutionModeName() string {
	if m := strings.TrimSpace(c.ExecutionMode); m != "" {
		return strings.ToLower(m)
	}
	return "full"
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "calroute.log"
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath reads and unmarshals the configuration at path.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	return config, nil
}
