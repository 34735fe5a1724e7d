// internal/calibrate/orchestrator.go
package calibrate

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mwiater/calroute/internal/executor"
	"github.com/mwiater/calroute/internal/harness"
	"github.com/mwiater/calroute/internal/suite"
	"github.com/mwiater/calroute/internal/util"
)

const responseExcerptRunes = 200

// Orchestrator drives the harness and quality evaluator across the whole
// suite for one model at a time. Benchmarking is deliberately sequential:
// one model, one prompt, one iteration at a time, so measurements are not
// corrupted by concurrent load.
type Orchestrator struct {
	Runner             harness.Runner
	Runtime            string
	WarmupRuns         int
	MeasuredIterations int
	Timeout            time.Duration
}

// EvaluateModel runs the full suite against one model. Failures are caught
// and converted into a failed ModelResult; they never abort the batch of
// other models.
func (o *Orchestrator) EvaluateModel(ctx context.Context, s *suite.Suite, model string) ModelResult {
	log.Printf("Evaluating model %s across %d prompts...", model, len(s.Entries))

	taskPassed := make(map[string]float64)
	taskTotal := make(map[string]float64)
	var allPassed, allTotal float64
	var latencies, ttfts []float64
	var totalTokens int
	var promptRuns []PromptRun

	for _, entry := range s.Entries {
		outcome, err := harness.RunWithWarmup(ctx, o.Runner, o.Runtime, model, entry.Prompt,
			o.WarmupRuns, o.MeasuredIterations, o.Timeout)
		if err != nil {
			log.Printf("Model %s failed on prompt %s: %v", model, entry.ID, err)
			return failedResult(model, err)
		}

		eval := harness.Evaluate(outcome.Response, entry.Checks)
		taskPassed[entry.Task] += eval.PassedWeight
		taskTotal[entry.Task] += eval.TotalWeight
		allPassed += eval.PassedWeight
		allTotal += eval.TotalWeight

		latencies = append(latencies, outcome.LatenciesMs...)
		ttfts = append(ttfts, outcome.TTFTsMs...)
		totalTokens += outcome.TotalTokens

		run := PromptRun{
			PromptID:        entry.ID,
			Task:            entry.Task,
			OutputTokens:    outcome.TotalTokens,
			ResponseExcerpt: util.TruncateRunes(outcome.Response, responseExcerptRunes),
			CheckResults:    eval.Results,
			CheckPassRate:   eval.PassRate,
		}
		if len(outcome.LatenciesMs) > 0 {
			run.LatencyMs = harness.Median(outcome.LatenciesMs)
		}
		if len(outcome.TTFTsMs) > 0 {
			ttft := harness.Median(outcome.TTFTsMs)
			run.TTFTMs = &ttft
		}
		promptRuns = append(promptRuns, run)
	}

	checkPassRate := 1.0
	if allTotal > 0 {
		checkPassRate = allPassed / allTotal
	}

	taskScores := make(map[string]float64, len(s.TaskBreakdown))
	for task := range s.TaskBreakdown {
		if taskTotal[task] > 0 {
			taskScores[task] = 100 * taskPassed[task] / taskTotal[task]
		} else {
			taskScores[task] = 100
		}
	}

	overall := checkPassRate * 100
	if len(taskScores) > 0 {
		var sum float64
		for _, score := range taskScores {
			sum += score
		}
		overall = sum / float64(len(taskScores))
	}

	metrics := &Metrics{
		LatencyMsP50: harness.Percentile(latencies, 50),
		LatencyMsP95: harness.Percentile(latencies, 95),
		PeakMemoryMB: EstimatePeakMemoryMB(model),
	}
	if totalLatencySec := sum(latencies) / 1000; totalLatencySec > 0 {
		metrics.TokensPerSecond = float64(totalTokens) / totalLatencySec
	}
	if len(ttfts) > 0 {
		metrics.TTFTMs = harness.Median(ttfts)
	} else {
		metrics.TTFTMs = harness.Median(latencies)
	}

	log.Printf("Model %s complete: overall=%.1f tps=%.2f p50=%.0fms", model, overall, metrics.TokensPerSecond, metrics.LatencyMsP50)

	return ModelResult{
		ModelIdentifier: model,
		Status:          StatusSuccess,
		Metrics:         metrics,
		Quality: &Quality{
			OverallScore:  overall,
			TaskScores:    taskScores,
			CheckPassRate: checkPassRate,
		},
		Traces: &Traces{
			WarmupRuns:         o.WarmupRuns,
			MeasuredIterations: o.MeasuredIterations,
			PromptRuns:         promptRuns,
		},
	}
}

// failedResult normalizes an evaluation error into a failed model entry.
func failedResult(model string, err error) ModelResult {
	message := err.Error()
	if code := executor.ErrorCode(err); code != "" && !strings.Contains(message, code) {
		message = code + ": " + message
	}
	return ModelResult{
		ModelIdentifier: model,
		Status:          StatusFailed,
		Error:           message,
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
