// internal/commands/policy_resolve.go
package calroute

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/calroute/internal/executor"
	"github.com/mwiater/calroute/internal/logging"
	"github.com/mwiater/calroute/internal/policy"
	"github.com/mwiater/calroute/internal/render"
)

var policyResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a task or prompt to a model using the routing policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		task := strings.TrimSpace(policyResolveTask)
		if task == "" && strings.TrimSpace(policyResolvePrompt) != "" {
			task = policy.InferTaskFromPrompt(policyResolvePrompt)
			logging.LogEvent("Inferred task %q from prompt", task)
		}
		if task == "" {
			return fmt.Errorf("nothing to resolve (pass --task or --prompt)")
		}

		loaded, path, err := loadPolicyForCommand(policyResolvePolicy)
		if err != nil {
			return err
		}
		logging.LogEvent("Resolving task %q against %s", task, path)

		if loaded.Kind == policy.KindEnterprise {
			model := policy.ResolveEnterprise(loaded.Enterprise, task)
			fmt.Fprintf(cmd.OutOrStdout(), "Task: %s\nModel: %s\n", policy.NormalizeTask(task), model)
			return nil
		}

		match := policy.ResolveRoute(loaded.Calibration, task)
		if match == nil {
			render.Resolution(cmd.OutOrStdout(), nil, nil)
			return fmt.Errorf("policy %s has no routing entries", path)
		}

		var available []string
		if policyResolveInstalled {
			cfg := GetConfig()
			available, err = executor.InstalledModels(cmd.Context(), cfg.RuntimeBinary)
			if err != nil {
				return fmt.Errorf("error checking installed models: %w", err)
			}
		}

		sel := policy.SelectModel(match.Entry, available)
		render.Resolution(cmd.OutOrStdout(), match, sel)
		if sel == nil {
			return fmt.Errorf("no installed model satisfies the route for %q", match.Task)
		}
		return nil
	},
}

var (
	policyResolveTask      string
	policyResolvePrompt    string
	policyResolvePolicy    string
	policyResolveInstalled bool
)

func init() {
	policyCmd.AddCommand(policyResolveCmd)
	policyResolveCmd.Flags().StringVar(&policyResolveTask, "task", "", "task name to resolve (e.g., coding)")
	policyResolveCmd.Flags().StringVar(&policyResolvePrompt, "prompt", "", "infer the task from this prompt text")
	policyResolveCmd.Flags().StringVar(&policyResolvePolicy, "policy", "", "path to the policy file (overrides config and discovery)")
	policyResolveCmd.Flags().BoolVar(&policyResolveInstalled, "installed", false, "restrict candidates to locally installed models")
}
