// internal/commands/policy_synth.go
package calroute

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/calroute/internal/calibrate"
	"github.com/mwiater/calroute/internal/logging"
	"github.com/mwiater/calroute/internal/policy"
	"github.com/mwiater/calroute/internal/render"
)

var policySynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize a routing policy from a calibration result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		resultPath := cfg.ResultPath
		if policySynthResult != "" {
			resultPath = policySynthResult
		}
		if resultPath == "" {
			return fmt.Errorf("no calibration result configured (set resultPath or pass --result)")
		}

		res, err := policy.LoadResult(resultPath)
		if err != nil {
			return fmt.Errorf("error loading calibration result: %w", err)
		}

		var p *policy.Policy
		if policySynthDraft || res.ExecutionMode != calibrate.ModeFull {
			logging.LogEvent("Synthesizing a draft policy from %s result", res.ExecutionMode)
			p, err = policy.SynthesizeDraft(res)
		} else {
			p, err = policy.Synthesize(res)
		}
		if err != nil {
			return fmt.Errorf("error synthesizing policy: %w", err)
		}
		p.Source.CalibrationResultPath = resultPath

		render.PolicyTable(cmd.OutOrStdout(), p)

		outPath := cfg.PolicyPath
		if policySynthOut != "" {
			outPath = policySynthOut
		}
		if outPath == "" {
			outPath = policy.DefaultPolicyFilenames[0]
		}
		if err := policy.Write(outPath, p); err != nil {
			return fmt.Errorf("error writing policy: %w", err)
		}
		logging.LogEvent("Routing policy written to %s", outPath)

		return nil
	},
}

var (
	policySynthResult string
	policySynthOut    string
	policySynthDraft  bool
)

func init() {
	policyCmd.AddCommand(policySynthCmd)
	policySynthCmd.Flags().StringVar(&policySynthResult, "result", "", "path to the calibration result (overrides config)")
	policySynthCmd.Flags().StringVar(&policySynthOut, "out", "", "write the policy to this file (.json/.yaml)")
	policySynthCmd.Flags().BoolVar(&policySynthDraft, "draft", false, "synthesize a draft policy even from a full result")
}
