// internal/calibrate/builder.go
package calibrate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mwiater/calroute/internal/executor"
	"github.com/mwiater/calroute/internal/hardware"
	"github.com/mwiater/calroute/internal/suite"
)

// Builder assembles calibration result documents, either as drafts
// (dry-run / contract-only) or by running the full benchmark pipeline.
type Builder struct {
	Runtime            string
	ExecutionMode      string
	Objective          string
	CalibrationVersion string
	Models             []string
	Hardware           hardware.Fingerprint
	Orchestrator       *Orchestrator
}

// Build produces a schema-validated calibration result. Draft modes mark
// every model pending without touching the runtime; full mode evaluates
// models sequentially, one loaded model at a time.
func (b *Builder) Build(ctx context.Context, s *suite.Suite) (*Result, error) {
	objective, err := ParseObjective(b.Objective)
	if err != nil {
		return nil, err
	}
	mode, err := ParseExecutionMode(b.ExecutionMode)
	if err != nil {
		return nil, err
	}
	if len(b.Models) == 0 {
		return nil, fmt.Errorf("calibration requires at least one model")
	}
	if mode == ModeFull && !executor.SupportsFullMode(b.Runtime) {
		return nil, &executor.Error{
			Code:    executor.CodeUnsupportedRuntime,
			Message: fmt.Sprintf("runtime %q cannot run in full mode", b.Runtime),
		}
	}

	version := b.CalibrationVersion
	if version == "" {
		version = "v1"
	}

	res := &Result{
		SchemaVersion:      SchemaVersion,
		GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
		CalibrationVersion: version,
		ExecutionMode:      mode,
		Runtime:            b.Runtime,
		Objective:          objective,
		Hardware:           b.Hardware,
		SuitePath:          s.Path,
		SuiteTaskBreakdown: s.TaskBreakdown,
	}

	if mode == ModeFull {
		res.Models = b.runFull(ctx, s)
	} else {
		res.Models = b.draftModels()
	}

	for _, m := range res.Models {
		res.Summary.TotalModels++
		switch m.Status {
		case StatusSuccess:
			res.Summary.Successful++
		case StatusFailed:
			res.Summary.Failed++
		case StatusSkipped:
			res.Summary.Skipped++
		case StatusPending:
			res.Summary.Pending++
		}
	}

	if err := ValidateResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

// draftModels marks every declared model pending, validating suite/model
// plumbing without running inference.
func (b *Builder) draftModels() []ModelResult {
	models := make([]ModelResult, 0, len(b.Models))
	for _, id := range b.Models {
		models = append(models, ModelResult{
			ModelIdentifier: id,
			Status:          StatusPending,
		})
	}
	return models
}

// runFull evaluates each model in declared order. Per-model failures are
// already downgraded by the orchestrator, so the batch always completes.
func (b *Builder) runFull(ctx context.Context, s *suite.Suite) []ModelResult {
	models := make([]ModelResult, 0, len(b.Models))
	for i, id := range b.Models {
		log.Printf("Calibrating model %d of %d: %s", i+1, len(b.Models), id)
		models = append(models, b.Orchestrator.EvaluateModel(ctx, s, id))
	}
	return models
}
