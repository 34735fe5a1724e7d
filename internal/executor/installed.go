// internal/executor/installed.go
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const listTimeout = 30 * time.Second

// InstalledModels returns the identifiers of locally installed models by
// shelling out to `<binary> list`.
func InstalledModels(ctx context.Context, binary string) ([]string, error) {
	if strings.TrimSpace(binary) == "" {
		binary = defaultBinary
	}

	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := exec.CommandContext(listCtx, binary, "list").Output()
	if err != nil {
		return nil, fmt.Errorf("error listing installed models: %w", err)
	}

	return parseModelList(string(out)), nil
}

// parseModelList extracts model identifiers from `ollama list` output,
// skipping the header row.
func parseModelList(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var models []string
	for i, line := range lines {
		if i == 0 && strings.HasPrefix(strings.ToUpper(line), "NAME") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		models = append(models, fields[0])
	}
	return models
}
