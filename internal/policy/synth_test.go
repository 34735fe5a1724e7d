// internal/policy/synth_test.go
package policy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mwiater/calroute/internal/calibrate"
)

func successModel(id string, quality, tps, p50 float64) calibrate.ModelResult {
	return calibrate.ModelResult{
		ModelIdentifier: id,
		Status:          calibrate.StatusSuccess,
		Metrics: &calibrate.Metrics{
			TokensPerSecond: tps,
			LatencyMsP50:    p50,
			LatencyMsP95:    p50 * 2,
			TTFTMs:          p50 / 4,
		},
		Quality: &calibrate.Quality{
			OverallScore:  quality,
			TaskScores:    map[string]float64{},
			CheckPassRate: quality / 100,
		},
	}
}

func baseResult(breakdown map[string]int, models ...calibrate.ModelResult) *calibrate.Result {
	res := &calibrate.Result{
		SchemaVersion:      calibrate.SchemaVersion,
		GeneratedAt:        "2026-01-02T03:04:05Z",
		CalibrationVersion: "v1",
		ExecutionMode:      calibrate.ModeFull,
		Runtime:            "ollama",
		Objective:          calibrate.ObjectiveBalanced,
		SuitePath:          "suites/test.jsonl",
		SuiteTaskBreakdown: breakdown,
		Models:             models,
	}
	res.Summary.TotalModels = len(models)
	for _, m := range models {
		switch m.Status {
		case calibrate.StatusSuccess:
			res.Summary.Successful++
		case calibrate.StatusFailed:
			res.Summary.Failed++
		case calibrate.StatusPending:
			res.Summary.Pending++
		}
	}
	return res
}

func TestSynthesizeLexicographicTieBreak(t *testing.T) {
	res := baseResult(map[string]int{"general": 1},
		successModel("b:7b", 80, 30, 500),
		successModel("a:7b", 80, 30, 500),
	)

	p, err := Synthesize(res)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	entry := p.Routing["general"]
	if entry.Primary != "a:7b" {
		t.Fatalf("tie-break should rank a:7b first, got %q", entry.Primary)
	}
	if !reflect.DeepEqual(entry.Fallbacks, []string{"b:7b"}) {
		t.Fatalf("fallbacks: %v", entry.Fallbacks)
	}
}

func TestSynthesizeSingleSuccess(t *testing.T) {
	res := baseResult(map[string]int{"coding": 1, "general": 1},
		successModel("good:7b", 90, 40, 300),
		calibrate.ModelResult{ModelIdentifier: "bad1:1b", Status: calibrate.StatusFailed, Error: "RUNTIME_TIMEOUT: timed out"},
		calibrate.ModelResult{ModelIdentifier: "bad2:1b", Status: calibrate.StatusFailed, Error: "RUNTIME_EXECUTION: exit 1"},
	)

	p, err := Synthesize(res)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for task, entry := range p.Routing {
		if entry.Primary != "good:7b" {
			t.Fatalf("task %q primary: %q", task, entry.Primary)
		}
		if len(entry.Fallbacks) != 0 {
			t.Fatalf("task %q fallbacks: %v", task, entry.Fallbacks)
		}
	}
}

func TestSynthesizeObjectiveWeights(t *testing.T) {
	fast := successModel("fast:7b", 60, 120, 200)
	smart := successModel("smart:70b", 90, 10, 2000)

	res := baseResult(map[string]int{"general": 1}, fast, smart)

	res.Objective = calibrate.ObjectiveSpeed
	p, err := Synthesize(res)
	if err != nil {
		t.Fatalf("Synthesize(speed): %v", err)
	}
	if p.Routing["general"].Primary != "fast:7b" {
		t.Fatalf("speed objective should favor fast model, got %q", p.Routing["general"].Primary)
	}

	res.Objective = calibrate.ObjectiveQuality
	p, err = Synthesize(res)
	if err != nil {
		t.Fatalf("Synthesize(quality): %v", err)
	}
	if p.Routing["general"].Primary != "smart:70b" {
		t.Fatalf("quality objective should favor smart model, got %q", p.Routing["general"].Primary)
	}
}

func TestSynthesizeTaskScorePreferred(t *testing.T) {
	coder := successModel("coder:7b", 40, 30, 500)
	coder.Quality.TaskScores["coding"] = 95
	generalist := successModel("generalist:7b", 70, 30, 500)
	generalist.Quality.TaskScores["coding"] = 55

	p, err := Synthesize(baseResult(map[string]int{"coding": 2}, coder, generalist))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if p.Routing["coding"].Primary != "coder:7b" {
		t.Fatalf("task score should outrank overall, got %q", p.Routing["coding"].Primary)
	}
}

func TestSynthesizeEligibilityFallback(t *testing.T) {
	res := baseResult(map[string]int{"general": 1},
		successModel("weak1:1b", 20, 50, 100),
		successModel("weak2:1b", 30, 40, 150),
	)

	p, err := Synthesize(res)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	entry := p.Routing["general"]
	// Nobody clears the bar, so the full ranked list routes anyway.
	if entry.Primary == "" || len(entry.Fallbacks) != 1 {
		t.Fatalf("expected full ranked list, got %+v", entry)
	}
	if entry.MinQuality != nil {
		t.Fatalf("min_quality should be unset on fallback routes: %+v", entry)
	}
}

func TestSynthesizeNoSuccess(t *testing.T) {
	res := baseResult(map[string]int{"general": 1},
		calibrate.ModelResult{ModelIdentifier: "bad:1b", Status: calibrate.StatusFailed, Error: "exit 1"},
	)
	if _, err := Synthesize(res); !errors.Is(err, ErrNoSuccessfulModels) {
		t.Fatalf("expected ErrNoSuccessfulModels, got %v", err)
	}
}

func TestSynthesizeDraft(t *testing.T) {
	res := baseResult(map[string]int{"coding": 1, "general": 1},
		calibrate.ModelResult{ModelIdentifier: "a:1b", Status: calibrate.StatusPending},
		calibrate.ModelResult{ModelIdentifier: "b:1b", Status: calibrate.StatusPending},
	)
	res.ExecutionMode = calibrate.ModeDryRun

	p, err := SynthesizeDraft(res)
	if err != nil {
		t.Fatalf("SynthesizeDraft: %v", err)
	}
	for _, task := range []string{"coding", "general"} {
		entry, ok := p.Routing[task]
		if !ok {
			t.Fatalf("missing route for %q", task)
		}
		if entry.Primary != "a:1b" || !reflect.DeepEqual(entry.Fallbacks, []string{"b:1b"}) {
			t.Fatalf("task %q route: %+v", task, entry)
		}
		if entry.Rationale != "draft" {
			t.Fatalf("task %q rationale: %q", task, entry.Rationale)
		}
	}
}
