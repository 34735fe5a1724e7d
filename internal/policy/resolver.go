// internal/policy/resolver.go
package policy

import (
	"regexp"
	"sort"
	"strings"
)

// taskSynonyms is the fixed normalization table for caller-supplied task names.
var taskSynonyms = map[string]string{
	"code":         "coding",
	"chat":         "talking",
	"conversation": "talking",
	"summarize":    "reading",
	"vision":       "multimodal",
	"image":        "multimodal",
}

// NormalizeTask trims and lowercases a task name, applies the synonym table,
// and defaults blank input to "general". Unrecognized names pass through.
func NormalizeTask(task string) string {
	t := strings.ToLower(strings.TrimSpace(task))
	if t == "" {
		return "general"
	}
	if canonical, ok := taskSynonyms[t]; ok {
		return canonical
	}
	return t
}

// taskProbe pairs a task with its detection pattern. Order matters: the
// first matching probe wins.
type taskProbe struct {
	task    string
	pattern *regexp.Regexp
}

var taskProbes = []taskProbe{
	{"coding", regexp.MustCompile("(?i)\\b(code|function|bug|compile|debug|implement|refactor|script|program)\\b|```")},
	{"reasoning", regexp.MustCompile(`(?i)\b(prove|logic|reason|deduce|solve|step by step|calculate|math)\b`)},
	{"multimodal", regexp.MustCompile(`(?i)\b(image|picture|photo|diagram|screenshot|visual)\b`)},
	{"reading", regexp.MustCompile(`(?i)\b(summarize|summary|tl;dr|article|document|extract)\b`)},
	{"creative", regexp.MustCompile(`(?i)\b(story|poem|fiction|imagine|creative|lyrics)\b`)},
	{"talking", regexp.MustCompile(`(?i)\b(chat|hello|hi|talk|conversation|how are you)\b`)},
}

// InferTaskFromPrompt classifies free-form prompt text into a task bucket
// via ordered keyword probes. It is a heuristic, not a trained classifier.
func InferTaskFromPrompt(text string) string {
	for _, probe := range taskProbes {
		if probe.pattern.MatchString(text) {
			return probe.task
		}
	}
	return "general"
}

// RouteMatch is a resolved route plus how it was found.
type RouteMatch struct {
	Task             string
	Entry            RoutingEntry
	UsedTaskFallback bool
}

// ResolveRoute maps a task to a routing entry. The candidate chain is the
// normalized task, its chat/talking cross-alias, then "general"; when the
// policy has routes but none match, the table's first key (sorted for
// determinism) is used with UsedTaskFallback set. Resolution never mutates
// the policy. A nil return means the policy has no routes at all.
func ResolveRoute(p *Policy, task string) *RouteMatch {
	if p == nil || len(p.Routing) == 0 {
		return nil
	}

	normalized := NormalizeTask(task)
	chain := []string{normalized}
	switch normalized {
	case "talking":
		chain = append(chain, "chat")
	case "chat":
		chain = append(chain, "talking")
	}
	chain = append(chain, "general")

	for _, candidate := range chain {
		if entry, ok := p.Routing[candidate]; ok {
			return &RouteMatch{Task: candidate, Entry: entry}
		}
	}

	keys := make([]string, 0, len(p.Routing))
	for key := range p.Routing {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	first := keys[0]
	return &RouteMatch{Task: first, Entry: p.Routing[first], UsedTaskFallback: true}
}

// ModelSelection is a resolved model plus whether it differs from the
// route's primary.
type ModelSelection struct {
	Model        string
	UsedFallback bool
}

// SelectModel walks the route's de-duplicated candidate chain (primary then
// fallbacks) against the currently available models. A nil availableModels
// means availability is unknown and the primary is trusted verbatim. A nil
// return means nothing matched; the caller must supply its own default, the
// resolver never guesses beyond the policy.
func SelectModel(entry RoutingEntry, availableModels []string) *ModelSelection {
	if availableModels == nil {
		return &ModelSelection{Model: entry.Primary}
	}

	seen := make(map[string]bool)
	chain := make([]string, 0, 1+len(entry.Fallbacks))
	for _, candidate := range append([]string{entry.Primary}, entry.Fallbacks...) {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		chain = append(chain, candidate)
	}

	for _, candidate := range chain {
		if hit, ok := MatchIdentifier(candidate, availableModels); ok {
			return &ModelSelection{Model: hit, UsedFallback: hit != entry.Primary}
		}
	}
	return nil
}

// MatchIdentifier fuzzy-matches one model identifier against the available
// list with priority exact id > same base name (before ":") > tag-qualified
// prefix in either direction. It is a pure function, free of I/O.
func MatchIdentifier(candidate string, available []string) (string, bool) {
	for _, a := range available {
		if a == candidate {
			return a, true
		}
	}

	base := baseName(candidate)
	for _, a := range available {
		if baseName(a) == base {
			return a, true
		}
	}

	for _, a := range available {
		if strings.HasPrefix(a, candidate) || strings.HasPrefix(candidate, a) {
			return a, true
		}
	}

	return "", false
}

func baseName(identifier string) string {
	if idx := strings.Index(identifier, ":"); idx >= 0 {
		return identifier[:idx]
	}
	return identifier
}

// ResolveEnterprise maps a task to a model under the enterprise dialect:
// the normalized task's override if present, else the default model.
func ResolveEnterprise(p *EnterprisePolicy, task string) string {
	if model, ok := p.TaskOverrides[NormalizeTask(task)]; ok {
		return model
	}
	return p.DefaultModel
}
