// internal/policy/synth.go
package policy

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/mwiater/calroute/internal/calibrate"
)

// ErrNoSuccessfulModels indicates a calibration result with zero successful
// models; a routing table cannot be ranked from failures alone.
var ErrNoSuccessfulModels = errors.New("no successful models to synthesize a policy from")

// eligibilityBar is the quality score a candidate must clear to be routed
// ahead of the full ranked list.
const eligibilityBar = 50.0

// candidate is one successful model's scores for a single task.
type candidate struct {
	id       string
	quality  float64
	speedRaw float64
	speed    float64
	combined float64
}

// Synthesize ranks successful models per task into a routing table under the
// result's objective. Identical inputs always produce an identical policy:
// ordering is total (combined score, then quality, then identifier).
func Synthesize(res *calibrate.Result) (*Policy, error) {
	successful := res.SuccessfulModels()
	if len(successful) == 0 {
		return nil, ErrNoSuccessfulModels
	}

	tasks := make([]string, 0, len(res.SuiteTaskBreakdown))
	for task := range res.SuiteTaskBreakdown {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	if len(tasks) == 0 {
		tasks = []string{"general"}
	}

	routing := make(map[string]RoutingEntry, len(tasks))
	for _, task := range tasks {
		routing[task] = rankTask(task, successful, res.Objective)
	}

	p := &Policy{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Objective:     res.Objective,
		Source: Source{
			CalibrationVersion: res.CalibrationVersion,
		},
		Routing: routing,
	}

	if err := ValidatePolicy(p); err != nil {
		return nil, err
	}
	return p, nil
}

// rankTask orders candidates for one task and folds them into a route.
func rankTask(task string, models []calibrate.ModelResult, objective string) RoutingEntry {
	candidates := make([]candidate, 0, len(models))
	for _, m := range models {
		quality := m.Quality.OverallScore
		if score, ok := m.Quality.TaskScores[task]; ok {
			quality = score
		}
		candidates = append(candidates, candidate{
			id:       m.ModelIdentifier,
			quality:  quality,
			speedRaw: m.Metrics.TokensPerSecond - m.Metrics.LatencyMsP50/1000,
		})
	}

	normalizeSpeed(candidates)

	speedWeight, qualityWeight := objectiveWeights(objective)
	for i := range candidates {
		candidates[i].combined = speedWeight*candidates[i].speed + qualityWeight*candidates[i].quality
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].combined != candidates[j].combined {
			return candidates[i].combined > candidates[j].combined
		}
		if candidates[i].quality != candidates[j].quality {
			return candidates[i].quality > candidates[j].quality
		}
		return candidates[i].id < candidates[j].id
	})

	eligible := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.quality >= eligibilityBar {
			eligible = append(eligible, c)
		}
	}

	entry := RoutingEntry{}
	ranked := eligible
	if len(eligible) == 0 {
		// Never emit an empty route; fall back to the full ranked list.
		log.Printf("No candidate cleared quality %.0f for task %s; routing full ranked list", eligibilityBar, task)
		ranked = candidates
	} else {
		bar := eligibilityBar
		entry.MinQuality = &bar
	}

	entry.Primary = ranked[0].id
	entry.Fallbacks = make([]string, 0, len(ranked)-1)
	for _, c := range ranked[1:] {
		entry.Fallbacks = append(entry.Fallbacks, c.id)
	}
	entry.Rationale = fmt.Sprintf("objective=%s combined=%.1f quality=%.1f speed=%.1f",
		objective, ranked[0].combined, ranked[0].quality, ranked[0].speed)
	return entry
}

// normalizeSpeed min-max scales speedRaw into [0,100]; every candidate ties
// at 50 when the range is zero.
func normalizeSpeed(candidates []candidate) {
	if len(candidates) == 0 {
		return
	}
	min, max := candidates[0].speedRaw, candidates[0].speedRaw
	for _, c := range candidates[1:] {
		if c.speedRaw < min {
			min = c.speedRaw
		}
		if c.speedRaw > max {
			max = c.speedRaw
		}
	}
	for i := range candidates {
		if max == min {
			candidates[i].speed = 50
		} else {
			candidates[i].speed = 100 * (candidates[i].speedRaw - min) / (max - min)
		}
	}
}

// objectiveWeights returns the (speed, quality) blend for an objective.
func objectiveWeights(objective string) (float64, float64) {
	switch objective {
	case calibrate.ObjectiveSpeed:
		return 0.75, 0.25
	case calibrate.ObjectiveQuality:
		return 0.2, 0.8
	default:
		return 0.5, 0.5
	}
}

// SynthesizeDraft builds a placeholder routing table from a result with no
// successful runs: first declared model primary, the rest as fallbacks in
// input order. It lets downstream tooling validate shape before real
// benchmarking.
func SynthesizeDraft(res *calibrate.Result) (*Policy, error) {
	ids := res.ModelIdentifiers()
	if len(ids) == 0 {
		return nil, fmt.Errorf("draft policy requires at least one declared model")
	}

	tasks := make([]string, 0, len(res.SuiteTaskBreakdown))
	for task := range res.SuiteTaskBreakdown {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	if len(tasks) == 0 {
		tasks = []string{"general"}
	}

	routing := make(map[string]RoutingEntry, len(tasks))
	for _, task := range tasks {
		routing[task] = RoutingEntry{
			Primary:   ids[0],
			Fallbacks: append([]string{}, ids[1:]...),
			Rationale: "draft",
		}
	}

	p := &Policy{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Objective:     res.Objective,
		Source: Source{
			CalibrationVersion: res.CalibrationVersion,
		},
		Routing: routing,
	}

	if err := ValidatePolicy(p); err != nil {
		return nil, err
	}
	return p, nil
}
