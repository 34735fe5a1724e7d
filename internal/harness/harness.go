// internal/harness/harness.go
// Package harness runs warmup and measured prompt iterations and grades
// responses against weighted checks.
package harness

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mwiater/calroute/internal/executor"
)

// Runner abstracts the runtime executor so the harness can be driven in tests.
type Runner interface {
	Execute(ctx context.Context, runtime, model, prompt string, timeout time.Duration) (*executor.Result, error)
}

// RunOutcome aggregates one prompt's measured iterations. Response holds the
// last measured run's text; grading a single response keeps quality
// evaluation unambiguous while timing reflects every measured run.
type RunOutcome struct {
	Response            string
	LatenciesMs         []float64
	TTFTsMs             []float64
	TotalTokens         int
	AverageOutputTokens float64
}

// RunWithWarmup executes warmupRuns priming iterations (results discarded)
// followed by measuredIterations timed iterations. measuredIterations must be
// at least 1.
func RunWithWarmup(ctx context.Context, runner Runner, runtime, model, prompt string, warmupRuns, measuredIterations int, timeout time.Duration) (*RunOutcome, error) {
	if measuredIterations < 1 {
		return nil, fmt.Errorf("measured iterations must be at least 1, got %d", measuredIterations)
	}

	for i := 0; i < warmupRuns; i++ {
		log.Printf("Warmup run %d of %d for model %s...", i+1, warmupRuns, model)
		if _, err := runner.Execute(ctx, runtime, model, prompt, timeout); err != nil {
			return nil, fmt.Errorf("warmup run %d failed: %w", i+1, err)
		}
	}

	outcome := &RunOutcome{}
	for i := 0; i < measuredIterations; i++ {
		log.Printf("Measured iteration %d of %d for model %s...", i+1, measuredIterations, model)
		res, err := runner.Execute(ctx, runtime, model, prompt, timeout)
		if err != nil {
			return nil, fmt.Errorf("measured iteration %d failed: %w", i+1, err)
		}

		outcome.Response = res.Output
		outcome.LatenciesMs = append(outcome.LatenciesMs, res.LatencyMs)
		if res.TTFTMs != nil {
			outcome.TTFTsMs = append(outcome.TTFTsMs, *res.TTFTMs)
		}
		outcome.TotalTokens += len(strings.Fields(res.Output))
	}

	outcome.AverageOutputTokens = float64(outcome.TotalTokens) / float64(measuredIterations)
	return outcome, nil
}
