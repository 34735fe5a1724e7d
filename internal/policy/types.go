// internal/policy/types.go
// Package policy synthesizes, stores, and resolves per-task model routing
// tables derived from calibration results.
package policy

// SchemaVersion identifies the calibration policy document format.
const SchemaVersion = "1.0"

// RoutingEntry routes one task to a primary model plus ordered fallbacks.
// The primary never also appears in the fallbacks.
type RoutingEntry struct {
	Primary    string   `json:"primary"`
	Fallbacks  []string `json:"fallbacks"`
	MinQuality *float64 `json:"min_quality,omitempty"`
	Rationale  string   `json:"rationale"`
}

// Source records which calibration produced a policy.
type Source struct {
	CalibrationVersion    string `json:"calibration_version"`
	CalibrationResultPath string `json:"calibration_result_path,omitempty"`
}

// Policy is a per-task routing table. Once written it is treated as
// immutable, read-only input at resolution time.
type Policy struct {
	SchemaVersion string                  `json:"schema_version"`
	GeneratedAt   string                  `json:"generated_at"`
	Objective     string                  `json:"objective"`
	Source        Source                  `json:"source"`
	Routing       map[string]RoutingEntry `json:"routing"`
	Metadata      map[string]string       `json:"metadata,omitempty"`
}

// EnterprisePolicy is the centrally managed policy dialect: fixed task
// overrides plus a default model, with no calibration lineage.
type EnterprisePolicy struct {
	SchemaVersion string            `json:"schema_version"`
	Organization  string            `json:"organization"`
	DefaultModel  string            `json:"default_model"`
	TaskOverrides map[string]string `json:"task_overrides,omitempty"`
}

// Policy dialect kinds returned by LoadAny.
const (
	KindCalibration = "calibration"
	KindEnterprise  = "enterprise"
)

// AnyPolicy is the discriminated result of loading a policy file that may be
// either dialect.
type AnyPolicy struct {
	Kind        string
	Calibration *Policy
	Enterprise  *EnterprisePolicy
}
