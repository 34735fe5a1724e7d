// internal/commands/calibrate_run.go
package calroute

import (
	"fmt"
	"path/filepath"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/calroute/internal/calibrate"
	"github.com/mwiater/calroute/internal/executor"
	"github.com/mwiater/calroute/internal/hardware"
	"github.com/mwiater/calroute/internal/logging"
	"github.com/mwiater/calroute/internal/policy"
	"github.com/mwiater/calroute/internal/render"
	"github.com/mwiater/calroute/internal/suite"
	"github.com/mwiater/calroute/internal/util"
)

var calibrateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark the configured models against the prompt suite",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if DebugEnabled() {
			pp.Println(cfg)
		}

		suitePath := cfg.SuitePath
		if calibrateRunSuite != "" {
			suitePath = calibrateRunSuite
		}
		if suitePath == "" {
			return fmt.Errorf("no prompt suite configured (set suitePath or pass --suite)")
		}

		models := cfg.Models
		if len(calibrateRunModels) > 0 {
			models = calibrateRunModels
		}

		s, err := suite.Load(suitePath)
		if err != nil {
			return fmt.Errorf("error loading prompt suite: %w", err)
		}
		logging.LogEvent("Loaded suite %s: %d prompts across %d tasks", suitePath, len(s.Entries), len(s.Tasks()))

		fingerprint := hardware.Detect(cmd.Context())
		logging.LogEvent("Hardware: %s", fingerprint)

		builder := &calibrate.Builder{
			Runtime:            cfg.RuntimeName(),
			ExecutionMode:      cfg.ExecutionModeName(),
			Objective:          cfg.ObjectiveName(),
			CalibrationVersion: calibrateRunVersion,
			Models:             models,
			Hardware:           fingerprint,
			Orchestrator: &calibrate.Orchestrator{
				Runner:             &executor.Executor{Binary: cfg.RuntimeBinary},
				Runtime:            cfg.RuntimeName(),
				WarmupRuns:         cfg.WarmupCount(),
				MeasuredIterations: cfg.IterationCount(),
				Timeout:            cfg.PromptTimeout(),
			},
		}

		res, err := builder.Build(cmd.Context(), s)
		if err != nil {
			return fmt.Errorf("error running calibration: %w", err)
		}

		render.CalibrationSummary(cmd.OutOrStdout(), res)

		resultPath := cfg.ResultPath
		if calibrateRunOut != "" {
			resultPath = calibrateRunOut
		}
		if resultPath == "" {
			name := fmt.Sprintf("calibration-%s.json", util.Slugify(res.CalibrationVersion+"-"+res.Runtime))
			resultPath = filepath.Join("calrouteData", "calibrations", name)
		}
		if err := policy.Write(resultPath, res); err != nil {
			return fmt.Errorf("error writing calibration result: %w", err)
		}
		logging.LogEvent("Calibration result written to %s", resultPath)

		if calibrateRunPolicyOut != "" {
			var p *policy.Policy
			if res.ExecutionMode == calibrate.ModeFull {
				p, err = policy.Synthesize(res)
			} else {
				p, err = policy.SynthesizeDraft(res)
			}
			if err != nil {
				return fmt.Errorf("error synthesizing policy: %w", err)
			}
			p.Source.CalibrationResultPath = resultPath
			if err := policy.Write(calibrateRunPolicyOut, p); err != nil {
				return fmt.Errorf("error writing policy: %w", err)
			}
			logging.LogEvent("Routing policy written to %s", calibrateRunPolicyOut)
		}

		return nil
	},
}

var (
	calibrateRunSuite     string
	calibrateRunModels    []string
	calibrateRunOut       string
	calibrateRunVersion   string
	calibrateRunPolicyOut string
)

func init() {
	calibrateCmd.AddCommand(calibrateRunCmd)
	calibrateRunCmd.Flags().StringVar(&calibrateRunSuite, "suite", "", "path to the JSONL prompt suite (overrides config)")
	calibrateRunCmd.Flags().StringSliceVar(&calibrateRunModels, "models", nil, "model identifiers to calibrate (overrides config)")
	calibrateRunCmd.Flags().StringVar(&calibrateRunOut, "out", "", "write the calibration result to this file (.json/.yaml)")
	calibrateRunCmd.Flags().StringVar(&calibrateRunVersion, "calibration-version", "", "version label recorded in the result (default v1)")
	calibrateRunCmd.Flags().StringVar(&calibrateRunPolicyOut, "policy-out", "", "also synthesize a routing policy to this file")
}
