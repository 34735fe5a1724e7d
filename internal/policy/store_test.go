// internal/policy/store_test.go
package policy

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func samplePolicy() *Policy {
	bar := 50.0
	return &Policy{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   "2026-01-02T03:04:05Z",
		Objective:     "balanced",
		Source:        Source{CalibrationVersion: "v1"},
		Routing: map[string]RoutingEntry{
			"coding":  {Primary: "a:7b", Fallbacks: []string{"b:7b"}, MinQuality: &bar, Rationale: "objective=balanced combined=75.0 quality=80.0 speed=70.0"},
			"general": {Primary: "b:7b", Fallbacks: []string{}, Rationale: "objective=balanced combined=60.0 quality=60.0 speed=60.0"},
		},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := samplePolicy()

	for _, name := range []string{"policy.json", "policy.yaml"} {
		path := filepath.Join(dir, name)
		if err := Write(path, p); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if !reflect.DeepEqual(p, loaded) {
			t.Fatalf("%s round trip mismatch:\nwrote  %+v\nloaded %+v", name, p, loaded)
		}
	}
}

func TestWriteJSONTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	if err := Write(path, samplePolicy()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Fatalf("expected pretty JSON with trailing newline, got tail %q", string(data[len(data)-4:]))
	}
}

func TestWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "policy.yml")
	if err := Write(path, samplePolicy()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestWriteRefusesDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, samplePolicy()); err == nil {
		t.Fatal("expected refusal to write over a directory")
	}
}

func TestLoadFailureModes(t *testing.T) {
	dir := t.TempDir()

	// Missing file.
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("missing file error: %v", err)
	}

	// Not a file.
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "not a file") {
		t.Fatalf("directory error: %v", err)
	}

	// Parse error.
	badJSON := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badJSON, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(badJSON); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("parse error: %v", err)
	}

	// Schema error.
	notPolicy := filepath.Join(dir, "shape.json")
	if err := os.WriteFile(notPolicy, []byte(`{"routing":{}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(notPolicy); err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("schema error: %v", err)
	}
}

func TestDiscoverDefault(t *testing.T) {
	dir := t.TempDir()

	// Nothing present.
	if _, _, err := DiscoverDefault(dir); err == nil {
		t.Fatal("expected discovery failure in empty directory")
	}

	// JSON present, YAML absent: json wins by default order.
	if err := Write(filepath.Join(dir, "calibration-policy.json"), samplePolicy()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, path, err := DiscoverDefault(dir)
	if err != nil {
		t.Fatalf("DiscoverDefault: %v", err)
	}
	if filepath.Base(path) != "calibration-policy.json" {
		t.Fatalf("discovered %q", path)
	}

	// YAML appears: it outranks json in the probe order.
	if err := Write(filepath.Join(dir, "calibration-policy.yaml"), samplePolicy()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, path, err = DiscoverDefault(dir)
	if err != nil {
		t.Fatalf("DiscoverDefault: %v", err)
	}
	if filepath.Base(path) != "calibration-policy.yaml" {
		t.Fatalf("discovered %q", path)
	}
}

func TestDiscoverDefaultSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "calibration-policy.yaml"), []byte("routing: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Write(filepath.Join(dir, "calibration-policy.json"), samplePolicy()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, path, err := DiscoverDefault(dir)
	if err != nil {
		t.Fatalf("DiscoverDefault: %v", err)
	}
	if filepath.Base(path) != "calibration-policy.json" {
		t.Fatalf("expected invalid yaml to be skipped, discovered %q", path)
	}
}

func TestLoadAnyDialects(t *testing.T) {
	dir := t.TempDir()

	calPath := filepath.Join(dir, "cal.yaml")
	if err := Write(calPath, samplePolicy()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	any, err := LoadAny(calPath)
	if err != nil {
		t.Fatalf("LoadAny(calibration): %v", err)
	}
	if any.Kind != KindCalibration || any.Calibration == nil {
		t.Fatalf("expected calibration dialect, got %+v", any)
	}

	entPath := filepath.Join(dir, "ent.json")
	ent := &EnterprisePolicy{
		SchemaVersion: SchemaVersion,
		Organization:  "acme",
		DefaultModel:  "llama3.1:8b",
		TaskOverrides: map[string]string{"coding": "qwen2.5-coder:7b"},
	}
	if err := Write(entPath, ent); err != nil {
		t.Fatalf("Write: %v", err)
	}
	any, err = LoadAny(entPath)
	if err != nil {
		t.Fatalf("LoadAny(enterprise): %v", err)
	}
	if any.Kind != KindEnterprise || any.Enterprise == nil {
		t.Fatalf("expected enterprise dialect, got %+v", any)
	}
	if any.Enterprise.DefaultModel != "llama3.1:8b" {
		t.Fatalf("enterprise payload: %+v", any.Enterprise)
	}

	junk := filepath.Join(dir, "junk.json")
	if err := os.WriteFile(junk, []byte(`{"hello":"world"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadAny(junk); err == nil || !strings.Contains(err.Error(), "neither dialect") {
		t.Fatalf("expected dialect error, got %v", err)
	}
}

func TestLoadResultRoundTrip(t *testing.T) {
	res := baseResult(map[string]int{"general": 1}, successModel("a:7b", 80, 30, 500))
	res.Hardware.HostID = "abc123def456"
	res.Hardware.Platform = "linux"
	res.Hardware.Architecture = "amd64"
	res.Hardware.CPUCores = 8
	res.Hardware.GPUModel = "CPU Only"

	path := filepath.Join(t.TempDir(), "result.json")
	if err := Write(path, res); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := LoadResult(path)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if !reflect.DeepEqual(res, loaded) {
		t.Fatalf("round trip mismatch:\nwrote  %+v\nloaded %+v", res, loaded)
	}
}
