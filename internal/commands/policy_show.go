// internal/commands/policy_show.go
package calroute

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mwiater/calroute/internal/policy"
	"github.com/mwiater/calroute/internal/render"
)

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display a routing policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, err := loadPolicyForCommand(policyShowPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Policy file: %s\n\n", path)

		switch loaded.Kind {
		case policy.KindCalibration:
			render.PolicyTable(cmd.OutOrStdout(), loaded.Calibration)
		case policy.KindEnterprise:
			ent := loaded.Enterprise
			fmt.Fprintf(cmd.OutOrStdout(), "Enterprise policy for %s\n", ent.Organization)
			fmt.Fprintf(cmd.OutOrStdout(), "Default model: %s\n", ent.DefaultModel)
			tasks := make([]string, 0, len(ent.TaskOverrides))
			for task := range ent.TaskOverrides {
				tasks = append(tasks, task)
			}
			sort.Strings(tasks)
			for _, task := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", task, ent.TaskOverrides[task])
			}
		}
		return nil
	},
}

var policyShowPath string

// loadPolicyForCommand resolves a policy for CLI use: an explicit path when
// given, otherwise the configured policyPath, otherwise default-name discovery
// in the per-user config directory.
func loadPolicyForCommand(explicit string) (*policy.AnyPolicy, string, error) {
	path := explicit
	if path == "" {
		if cfg := GetConfig(); cfg != nil {
			path = cfg.PolicyPath
		}
	}
	if path != "" {
		loaded, err := policy.LoadAny(path)
		if err != nil {
			return nil, "", fmt.Errorf("error loading policy: %w", err)
		}
		return loaded, path, nil
	}

	baseDir, err := os.UserConfigDir()
	if err != nil {
		return nil, "", fmt.Errorf("error resolving user config directory: %w", err)
	}
	p, discovered, err := policy.DiscoverDefault(baseDir)
	if err != nil {
		return nil, "", err
	}
	return &policy.AnyPolicy{Kind: policy.KindCalibration, Calibration: p}, discovered, nil
}

func init() {
	policyCmd.AddCommand(policyShowCmd)
	policyShowCmd.Flags().StringVar(&policyShowPath, "policy", "", "path to the policy file (overrides config and discovery)")
}
