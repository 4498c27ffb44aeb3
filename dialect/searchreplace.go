package dialect

import (
	"fmt"
	"strings"
)

const (
	markerSearchStart = "<<<<<<< SEARCH"
	markerDivider     = "======="
	markerReplaceEnd  = ">>>>>>> REPLACE"
)

type searchReplaceBlock struct {
	search  string
	replace string
}

// ApplySearchReplace applies a sequence of SEARCH/REPLACE blocks against
// original, in order, each against the result of the previous. A block
// whose search text cannot be uniquely located is a failure for the whole
// call — there is no partial application.
//
// Matching is adapted from the teacher's claudetool/patchkit fuzzy-match
// techniques (Unique / UniqueTrim), generalized from a single oldText/
// newText pair to a sequence of blocks applied against one growing buffer:
// first a unique exact match of whole lines is tried, then a unique match
// ignoring each line's surrounding whitespace, so reflowed indentation in
// the model's SEARCH text doesn't defeat an otherwise unambiguous match.
func ApplySearchReplace(original, diff string) (string, error) {
	blocks, err := parseSearchReplaceBlocks(diff)
	if err != nil {
		return "", err
	}
	current := original
	for _, b := range blocks {
		next, ok := applyBlock(current, b)
		if !ok {
			return "", fmt.Errorf("search text not uniquely found: %q", truncate(b.search, 60))
		}
		current = next
	}
	return current, nil
}

func parseSearchReplaceBlocks(diff string) ([]searchReplaceBlock, error) {
	lines := strings.Split(diff, "\n")

	const (
		outside = iota
		inSearch
		inReplace
	)
	state := outside

	var blocks []searchReplaceBlock
	var search, replace []string

	for _, line := range lines {
		switch state {
		case outside:
			if strings.TrimRight(line, " \t\r") == markerSearchStart {
				state = inSearch
				search = nil
			}
		case inSearch:
			if strings.TrimRight(line, " \t\r") == markerDivider {
				state = inReplace
				replace = nil
				continue
			}
			search = append(search, line)
		case inReplace:
			if strings.TrimRight(line, " \t\r") == markerReplaceEnd {
				blocks = append(blocks, searchReplaceBlock{
					search:  strings.Join(search, "\n"),
					replace: strings.Join(replace, "\n"),
				})
				state = outside
				continue
			}
			replace = append(replace, line)
		}
	}
	if state != outside {
		return nil, fmt.Errorf("unterminated SEARCH/REPLACE block")
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no SEARCH/REPLACE blocks found")
	}
	return blocks, nil
}

func applyBlock(current string, b searchReplaceBlock) (string, bool) {
	currentLines := strings.Split(current, "\n")
	searchLines := strings.Split(b.search, "\n")
	replaceLines := strings.Split(b.replace, "\n")

	normalizers := []func(string) string{
		func(s string) string { return s },
		strings.TrimSpace,
	}
	for _, normalize := range normalizers {
		start, end, ok := uniqueLineMatch(currentLines, searchLines, normalize)
		if !ok {
			continue
		}
		merged := make([]string, 0, len(currentLines)-(end-start)+len(replaceLines))
		merged = append(merged, currentLines[:start]...)
		merged = append(merged, replaceLines...)
		merged = append(merged, currentLines[end:]...)
		return strings.Join(merged, "\n"), true
	}
	return "", false
}

// uniqueLineMatch finds the single contiguous run of currentLines whose
// normalized form equals searchLines' normalized form. It reports ok=false
// when there is no such run, or more than one.
func uniqueLineMatch(currentLines, searchLines []string, normalize func(string) string) (start, end int, ok bool) {
	if len(searchLines) == 0 {
		return 0, 0, false
	}
	match := -1
	for i := 0; i+len(searchLines) <= len(currentLines); i++ {
		if !linesEqual(currentLines[i:i+len(searchLines)], searchLines, normalize) {
			continue
		}
		if match != -1 {
			return 0, 0, false // ambiguous, already found one
		}
		match = i
	}
	if match == -1 {
		return 0, 0, false
	}
	return match, match + len(searchLines), true
}

func linesEqual(a, b []string, normalize func(string) string) bool {
	for i := range a {
		if normalize(a[i]) != normalize(b[i]) {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
