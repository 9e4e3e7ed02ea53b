// Package app contains the analysis agents and the supervisor that
// orchestrates them. Each agent pairs deterministic computation with one or
// more generation calls; generation failures degrade to fallback values
// and are reported alongside the result, never as a hard error.
package app

import (
	"fmt"
	"strings"
)

// maxConcurrentCalls caps parallel generation calls within one agent.
const maxConcurrentCalls = 4

// truncate shortens s to at most n bytes, appending the same ellipsis the
// downstream prompts expect.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s + "..."
	}
	return s[:n] + "..."
}

// orDefault substitutes def for an empty string.
func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// formatSamples renders sample values the way prompts expect, or the fixed
// marker for all-null columns.
func formatSamples(values []string) string {
	if len(values) == 0 {
		return "All null values"
	}
	return "[" + strings.Join(values, ", ") + "]"
}

// degradedNote folds per-item generation failures into the single note a
// stage call site reports: the failure count and the first error.
func degradedNote(what string, failed, total int, first error) string {
	if total > 1 {
		return fmt.Sprintf("%s failed for %d of %d: %v", what, failed, total, first)
	}
	return fmt.Sprintf("%s failed: %v", what, first)
}
