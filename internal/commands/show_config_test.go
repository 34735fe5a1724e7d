// internal/commands/show_config_test.go
package calroute

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestShowConfigLegacyFallback verifies that when the default config path is
// absent, the root-level legacy config file is picked up.
func TestShowConfigLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })

	legacy := `{"runtime":"ollama","objective":"speed","models":["llama3.1:8b"],"suitePath":"suites/core.jsonl"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs([]string{"show", "config", "--logFile", filepath.Join(dir, "test.log")})

	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("show config: %v\n%s", err, b.String())
	}

	out := b.String()
	for _, want := range []string{"Objective:           speed", "Models:              llama3.1:8b", "Suite Path:          suites/core.jsonl"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
