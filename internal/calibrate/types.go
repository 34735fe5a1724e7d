// internal/calibrate/types.go
// Package calibrate benchmarks candidate models against a prompt suite and
// assembles schema-validated calibration result documents.
package calibrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/calroute/internal/hardware"
	"github.com/mwiater/calroute/internal/harness"
)

// SchemaVersion identifies the calibration result document format.
const SchemaVersion = "1.0"

// Model statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Execution modes.
const (
	ModeDryRun       = "dry-run"
	ModeContractOnly = "contract-only"
	ModeFull         = "full"
)

// Objectives.
const (
	ObjectiveSpeed    = "speed"
	ObjectiveQuality  = "quality"
	ObjectiveBalanced = "balanced"
)

// Config-time validation errors. These abort before any benchmarking cost.
var (
	ErrUnsupportedObjective = errors.New("unsupported objective")
	ErrInvalidExecutionMode = errors.New("invalid execution mode")
)

// ParseObjective normalizes and validates an objective name.
func ParseObjective(s string) (string, error) {
	switch o := strings.ToLower(strings.TrimSpace(s)); o {
	case ObjectiveSpeed, ObjectiveQuality, ObjectiveBalanced:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q (expected speed, quality, or balanced)", ErrUnsupportedObjective, s)
	}
}

// ParseExecutionMode normalizes and validates an execution mode name.
func ParseExecutionMode(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case ModeDryRun, ModeContractOnly, ModeFull:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (expected dry-run, contract-only, or full)", ErrInvalidExecutionMode, s)
	}
}

// Metrics holds a model's aggregated performance statistics.
type Metrics struct {
	TTFTMs float64 `json:"ttft_ms"`
	// TokensPerSecond is a suite-wide aggregate (total tokens over total
	// latency across all prompts), a known approximation that conflates
	// prompts of different lengths.
	TokensPerSecond float64 `json:"tokens_per_second"`
	LatencyMsP50    float64 `json:"latency_ms_p50"`
	LatencyMsP95    float64 `json:"latency_ms_p95"`
	// PeakMemoryMB is a parse heuristic from the model identifier; nil means
	// unknown, never zero.
	PeakMemoryMB *float64 `json:"peak_memory_mb,omitempty"`
}

// Quality holds a model's aggregated grading scores, all in [0,100].
type Quality struct {
	OverallScore  float64            `json:"overall_score"`
	TaskScores    map[string]float64 `json:"task_scores"`
	CheckPassRate float64            `json:"check_pass_rate"`
}

// PromptRun traces one prompt's measured outcome for one model.
type PromptRun struct {
	PromptID        string                `json:"prompt_id"`
	Task            string                `json:"task"`
	LatencyMs       float64               `json:"latency_ms"`
	TTFTMs          *float64              `json:"ttft_ms,omitempty"`
	OutputTokens    int                   `json:"output_tokens"`
	ResponseExcerpt string                `json:"response_excerpt"`
	CheckResults    []harness.CheckResult `json:"check_results"`
	CheckPassRate   float64               `json:"check_pass_rate"`
}

// Traces records how a model's metrics were produced.
type Traces struct {
	WarmupRuns         int         `json:"warmup_runs"`
	MeasuredIterations int         `json:"measured_iterations"`
	PromptRuns         []PromptRun `json:"prompt_runs"`
}

// ModelResult is one model's calibration outcome.
type ModelResult struct {
	ModelIdentifier string   `json:"model_identifier"`
	Status          string   `json:"status"`
	Metrics         *Metrics `json:"metrics,omitempty"`
	Quality         *Quality `json:"quality,omitempty"`
	Traces          *Traces  `json:"traces,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Summary tallies model statuses. TotalModels always equals the model count
// and the four status counts always sum to it.
type Summary struct {
	TotalModels int `json:"total_models"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	Pending     int `json:"pending"`
}

// Result is a complete calibration result document. It is produced once per
// invocation and handed to the caller for optional persistence.
type Result struct {
	SchemaVersion      string               `json:"schema_version"`
	GeneratedAt        string               `json:"generated_at"`
	CalibrationVersion string               `json:"calibration_version"`
	ExecutionMode      string               `json:"execution_mode"`
	Runtime            string               `json:"runtime"`
	Objective          string               `json:"objective"`
	Hardware           hardware.Fingerprint `json:"hardware"`
	SuitePath          string               `json:"suite_path"`
	SuiteTaskBreakdown map[string]int       `json:"suite_task_breakdown"`
	Models             []ModelResult        `json:"models"`
	Summary            Summary              `json:"summary"`
}

// SuccessfulModels returns the models with status success, in input order.
func (r *Result) SuccessfulModels() []ModelResult {
	var out []ModelResult
	for _, m := range r.Models {
		if m.Status == StatusSuccess {
			out = append(out, m)
		}
	}
	return out
}

// ModelIdentifiers returns every declared model identifier, in input order.
func (r *Result) ModelIdentifiers() []string {
	ids := make([]string, 0, len(r.Models))
	for _, m := range r.Models {
		ids = append(ids, m.ModelIdentifier)
	}
	return ids
}
