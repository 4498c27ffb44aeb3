// Package dialect ships the two pluggable diff appliers the core consumes
// as injected function values (see patchcore.dev/applier.DialectAppliers):
// a default apply_standard_diff built on diffmatchpatch, and a default
// apply_search_replace adapted from a multi-block SEARCH/REPLACE matcher.
// Nothing in the core package imports this package; only the CLI wires it
// in, keeping the boundary the distilled spec calls out as pluggable.
package dialect

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ApplyStandardDiff applies a unified diff (``--- / +++ / @@`` headers) to
// original using diffmatchpatch's fuzzy, context-based hunk matching — the
// same tolerance for drifted line numbers that real, LLM-authored diffs
// need. The `---`/`+++` file-header lines are stripped before handing the
// remainder to PatchFromText, which only understands `@@` hunk headers.
func ApplyStandardDiff(original, diff string) (string, error) {
	dmp := diffmatchpatch.New()
	// PatchFromText reads each hunk line as URL-encoded text with no line
	// terminator, so every context, removed and added line is re-encoded
	// here with its newline restored.
	lines := strings.Split(stripFileHeaders(diff), "\n")
	for i, line := range lines {
		if line != "" && strings.ContainsRune(" -+", rune(line[0])) {
			lines[i] = line[:1] + strings.ReplaceAll(line[1:], "%", "%25") + "%0A"
		}
	}
	patches, err := dmp.PatchFromText(strings.Join(lines, "\n"))
	if err != nil {
		return "", fmt.Errorf("parse unified diff: %w", err)
	}
	result, applied := dmp.PatchApply(patches, original)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("hunk %d did not apply cleanly", i+1)
		}
	}
	return result, nil
}

func stripFileHeaders(diff string) string {
	lines := strings.Split(diff, "\n")
	i := 0
	for i < len(lines) && (strings.HasPrefix(lines[i], "--- ") || strings.HasPrefix(lines[i], "+++ ")) {
		i++
	}
	return strings.Join(lines[i:], "\n")
}
