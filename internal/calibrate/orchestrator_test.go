// internal/calibrate/orchestrator_test.go
package calibrate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/calroute/internal/executor"
	"github.com/mwiater/calroute/internal/suite"
)

// fixedRunner returns the same canned result for every execution, or a
// canned error for models listed in failFor.
type fixedRunner struct {
	output    string
	latencyMs float64
	ttftMs    float64
	failFor   map[string]error
}

func (r *fixedRunner) Execute(_ context.Context, _, model, _ string, _ time.Duration) (*executor.Result, error) {
	if err, ok := r.failFor[model]; ok {
		return nil, err
	}
	ttft := r.ttftMs
	return &executor.Result{Output: r.output, LatencyMs: r.latencyMs, TTFTMs: &ttft}, nil
}

func testSuite() *suite.Suite {
	return &suite.Suite{
		Path: "suites/test.jsonl",
		Entries: []suite.Entry{
			{ID: "p1", Task: "coding", Prompt: "write code", Checks: []suite.Check{{Type: suite.CheckContains, Expected: "func"}}},
			{ID: "p2", Task: "general", Prompt: "say hi"},
		},
		TaskBreakdown: map[string]int{"coding": 1, "general": 1},
	}
}

func TestEvaluateModelSuccess(t *testing.T) {
	runner := &fixedRunner{output: "func add", latencyMs: 100, ttftMs: 20}
	o := &Orchestrator{Runner: runner, Runtime: "ollama", WarmupRuns: 1, MeasuredIterations: 1, Timeout: time.Second}

	res := o.EvaluateModel(context.Background(), testSuite(), "llama3.1:8b")
	if res.Status != StatusSuccess {
		t.Fatalf("status = %q, error = %q", res.Status, res.Error)
	}

	if res.Quality.TaskScores["coding"] != 100 {
		t.Fatalf("coding score: %v", res.Quality.TaskScores)
	}
	// A task with zero total check weight scores 100.
	if res.Quality.TaskScores["general"] != 100 {
		t.Fatalf("general score: %v", res.Quality.TaskScores)
	}
	if res.Quality.OverallScore != 100 || res.Quality.CheckPassRate != 1 {
		t.Fatalf("quality: %+v", res.Quality)
	}

	// 2 tokens per prompt, 2 prompts, 200ms total latency: 4 / 0.2s = 20 tps.
	if res.Metrics.TokensPerSecond != 20 {
		t.Fatalf("tokens per second: %v", res.Metrics.TokensPerSecond)
	}
	if res.Metrics.LatencyMsP50 != 100 || res.Metrics.LatencyMsP95 != 100 {
		t.Fatalf("latency percentiles: %+v", res.Metrics)
	}
	if res.Metrics.TTFTMs != 20 {
		t.Fatalf("ttft median: %v", res.Metrics.TTFTMs)
	}
	if res.Metrics.PeakMemoryMB == nil {
		t.Fatal("expected memory estimate for 8b identifier")
	}

	if res.Traces == nil || len(res.Traces.PromptRuns) != 2 {
		t.Fatalf("traces: %+v", res.Traces)
	}
	if res.Traces.PromptRuns[0].PromptID != "p1" || res.Traces.PromptRuns[0].CheckPassRate != 1 {
		t.Fatalf("first prompt run: %+v", res.Traces.PromptRuns[0])
	}
}

func TestEvaluateModelFailureIsDowngraded(t *testing.T) {
	runner := &fixedRunner{
		output:  "ok",
		failFor: map[string]error{"bad:1b": &executor.Error{Code: executor.CodeTimeout, Message: "timed out"}},
	}
	o := &Orchestrator{Runner: runner, Runtime: "ollama", MeasuredIterations: 1, Timeout: time.Second}

	res := o.EvaluateModel(context.Background(), testSuite(), "bad:1b")
	if res.Status != StatusFailed {
		t.Fatalf("status = %q", res.Status)
	}
	if !strings.Contains(res.Error, executor.CodeTimeout) {
		t.Fatalf("expected normalized code in error, got %q", res.Error)
	}
	if res.Metrics != nil || res.Quality != nil {
		t.Fatalf("failed result should carry no metrics: %+v", res)
	}
}

func TestEvaluateModelOverallWithoutTasks(t *testing.T) {
	s := &suite.Suite{
		Path:          "suites/bare.jsonl",
		Entries:       []suite.Entry{{ID: "p1", Task: "general", Prompt: "hi", Checks: []suite.Check{{Type: suite.CheckExact, Expected: "hello"}}}},
		TaskBreakdown: map[string]int{"general": 1},
	}
	runner := &fixedRunner{output: "nope", latencyMs: 50, ttftMs: 5}
	o := &Orchestrator{Runner: runner, Runtime: "ollama", MeasuredIterations: 1, Timeout: time.Second}

	res := o.EvaluateModel(context.Background(), s, "a:1b")
	if res.Quality.TaskScores["general"] != 0 || res.Quality.OverallScore != 0 {
		t.Fatalf("quality: %+v", res.Quality)
	}
}
