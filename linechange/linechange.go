// Package linechange computes LCS-based per-operation line add/remove
// counts, the same accounting a CLI status line or UI threshold would
// drive from.
package linechange

import (
	"strings"

	"patchcore.dev/schema"
)

// LineDelta is the result of accounting for one operation.
type LineDelta struct {
	Added      int
	Removed    int
	Difference int
}

// Changes computes the line delta for one operation given the snapshots
// before (originals) and after (news) application.
func Changes(op schema.FileOperation, originals, news schema.Snapshot) LineDelta {
	switch op.Kind {
	case schema.OpRename:
		return LineDelta{}

	case schema.OpDelete:
		orig, _ := contentOf(originals, op.Path)
		removed := lineCount(orig)
		return LineDelta{Removed: removed, Difference: removed}

	case schema.OpWrite:
		origContent, origPresent := contentOf(originals, op.Path)
		newContent, newPresent := contentOf(news, op.Path)

		if origPresent == newPresent && origContent == newContent {
			return LineDelta{}
		}
		if !origPresent || origContent == "" {
			added := lineCount(newContent)
			return LineDelta{Added: added, Difference: added}
		}
		if !newPresent || newContent == "" {
			removed := lineCount(origContent)
			return LineDelta{Removed: removed, Difference: removed}
		}

		l := lcsLength(strings.Split(origContent, "\n"), strings.Split(newContent, "\n"))
		added := len(strings.Split(newContent, "\n")) - l
		removed := len(strings.Split(origContent, "\n")) - l
		return LineDelta{Added: added, Removed: removed, Difference: added + removed}
	}
	return LineDelta{}
}

// Summarize aggregates Changes over every operation in a parsed envelope —
// convenience for a CLI that wants one added/removed/difference total
// rather than per-file deltas.
func Summarize(ops []schema.FileOperation, originals, news schema.Snapshot) LineDelta {
	var total LineDelta
	for _, op := range ops {
		d := Changes(op, originals, news)
		total.Added += d.Added
		total.Removed += d.Removed
		total.Difference += d.Difference
	}
	return total
}

func contentOf(snapshot schema.Snapshot, path string) (string, bool) {
	p, ok := snapshot[path]
	if !ok || p.Absent {
		return "", false
	}
	return p.Content, true
}

// lineCount special-cases the empty string to 0 lines, rather than the 1
// a literal strings.Split would yield, so the absent/empty shortcut
// branches in Changes don't over-count an empty file as one blank line.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}

// lcsLength is the standard two-row dynamic-programming longest-common-
// subsequence length, with the shorter sequence on the inner axis for
// memory locality: O(m·n) time, O(min(m,n)) space.
func lcsLength(a, b []string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[i] = prev[i-1] + 1
			case prev[i] >= curr[i-1]:
				curr[i] = prev[i]
			default:
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
