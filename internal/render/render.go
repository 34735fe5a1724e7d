// internal/render/render.go
// Package render prints calibration results and routing policies for the CLI.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/calroute/internal/calibrate"
	"github.com/mwiater/calroute/internal/policy"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	taskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	successLabel = color.New(color.FgGreen).SprintFunc()
	failedLabel  = color.New(color.FgRed).SprintFunc()
	pendingLabel = color.New(color.FgYellow).SprintFunc()
	skippedLabel = color.New(color.FgHiBlack).SprintFunc()
)

// statusLabel colors a model status for terminal output.
func statusLabel(status string) string {
	switch status {
	case calibrate.StatusSuccess:
		return successLabel(status)
	case calibrate.StatusFailed:
		return failedLabel(status)
	case calibrate.StatusSkipped:
		return skippedLabel(status)
	default:
		return pendingLabel(status)
	}
}

// CalibrationSummary prints a per-model summary of a calibration result.
func CalibrationSummary(w io.Writer, res *calibrate.Result) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Calibration %s (%s, objective: %s, runtime: %s)",
		res.CalibrationVersion, res.ExecutionMode, res.Objective, res.Runtime)))
	fmt.Fprintf(w, "Suite: %s\n", res.SuitePath)

	tasks := make([]string, 0, len(res.SuiteTaskBreakdown))
	for task := range res.SuiteTaskBreakdown {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	for _, task := range tasks {
		fmt.Fprintf(w, "  %s: %d prompts\n", taskStyle.Render(task), res.SuiteTaskBreakdown[task])
	}
	fmt.Fprintln(w)

	for _, m := range res.Models {
		fmt.Fprintf(w, "%s [%s]\n", primaryStyle.Render(m.ModelIdentifier), statusLabel(m.Status))
		if m.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", failedLabel(m.Error))
		}
		if m.Metrics != nil {
			fmt.Fprintf(w, "  Tokens per Second: %.2f\n", m.Metrics.TokensPerSecond)
			fmt.Fprintf(w, "  Time to First Token: %.0fms\n", m.Metrics.TTFTMs)
			fmt.Fprintf(w, "  Latency p50/p95: %.0fms / %.0fms\n", m.Metrics.LatencyMsP50, m.Metrics.LatencyMsP95)
			if m.Metrics.PeakMemoryMB != nil {
				fmt.Fprintf(w, "  Estimated Peak Memory: %.0fMB\n", *m.Metrics.PeakMemoryMB)
			}
		}
		if m.Quality != nil {
			fmt.Fprintf(w, "  Overall Score: %.1f (pass rate %.2f)\n", m.Quality.OverallScore, m.Quality.CheckPassRate)
			scored := make([]string, 0, len(m.Quality.TaskScores))
			for task := range m.Quality.TaskScores {
				scored = append(scored, task)
			}
			sort.Strings(scored)
			for _, task := range scored {
				fmt.Fprintf(w, "    %s: %.1f\n", task, m.Quality.TaskScores[task])
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d models, %s %d, %s %d, %s %d, %s %d\n",
		res.Summary.TotalModels,
		successLabel("successful"), res.Summary.Successful,
		failedLabel("failed"), res.Summary.Failed,
		skippedLabel("skipped"), res.Summary.Skipped,
		pendingLabel("pending"), res.Summary.Pending)
}

// PolicyTable prints a routing policy, one task per block, tasks sorted.
func PolicyTable(w io.Writer, p *policy.Policy) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Routing policy (objective: %s, generated: %s)",
		p.Objective, p.GeneratedAt)))
	fmt.Fprintf(w, "Source calibration: %s\n\n", p.Source.CalibrationVersion)

	tasks := make([]string, 0, len(p.Routing))
	for task := range p.Routing {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)

	for _, task := range tasks {
		entry := p.Routing[task]
		fmt.Fprintf(w, "%s:\n", taskStyle.Render(task))
		fmt.Fprintf(w, "  primary:   %s\n", primaryStyle.Render(entry.Primary))
		for _, fb := range entry.Fallbacks {
			fmt.Fprintf(w, "  fallback:  %s\n", fb)
		}
		if entry.MinQuality != nil {
			fmt.Fprintf(w, "  min quality: %.0f\n", *entry.MinQuality)
		}
		fmt.Fprintf(w, "  rationale: %s\n", entry.Rationale)
	}
}

// Resolution prints the outcome of a single routing lookup.
func Resolution(w io.Writer, match *policy.RouteMatch, sel *policy.ModelSelection) {
	if match == nil {
		fmt.Fprintln(w, failedLabel("No route: the policy has no routing entries."))
		return
	}
	fmt.Fprintf(w, "Task: %s", taskStyle.Render(match.Task))
	if match.UsedTaskFallback {
		fmt.Fprint(w, " (fallback route)")
	}
	fmt.Fprintln(w)

	if sel == nil {
		fmt.Fprintf(w, "Model: %s\n", failedLabel("none of the route's models are installed"))
		return
	}
	fmt.Fprintf(w, "Model: %s", primaryStyle.Render(sel.Model))
	if sel.UsedFallback {
		fmt.Fprintf(w, " (fallback for %s)", match.Entry.Primary)
	}
	fmt.Fprintln(w)
}
